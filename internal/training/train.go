package training

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/severity/internal/classifier"
	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/dmitrijs2005/severity/internal/logging"
)

const DefaultTarget = "Tingkat Keparahan"

type Options struct {
	DataPath string
	Target   string
	TestSize float64
	Seed     int64
	Alpha    float64
	Binarize float64
}

func DefaultOptions() Options {
	return Options{
		Target:   DefaultTarget,
		TestSize: 0.1,
		Seed:     42,
		Alpha:    1.0,
		Binarize: 0.0,
	}
}

type Result struct {
	Model  *classifier.Trained
	Report Report
}

// Train reads the dataset, fits on the training split and scores the test
// split. When the test split is empty the report covers the training rows.
func Train(ctx context.Context, o Options, log logging.Logger) (*Result, error) {
	ds, err := ReadFile(o.DataPath)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	log.Info(ctx, "dataset loaded", "path", o.DataPath, "rows", len(ds.Rows), "columns", ds.Header)

	m, err := Prepare(ds, o.Target)
	if err != nil {
		return nil, fmt.Errorf("prepare dataset: %w", err)
	}
	for _, f := range m.Features {
		if f.Kind == classifier.KindCategorical {
			log.Debug(ctx, "categorical feature", "name", f.Name, "categories", len(f.Categories))
		}
	}

	trainIdx, testIdx := Split(len(m.Y), o.TestSize, o.Seed)
	Xtr, ytr := m.subset(trainIdx)
	log.Info(ctx, "split", "train", len(trainIdx), "test", len(testIdx), "seed", o.Seed)

	model, err := classifier.Fit(Xtr, ytr, o.Alpha, o.Binarize)
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}

	trained := &classifier.Trained{Model: model, Features: m.Features, CreatedAt: time.Now()}

	evalIdx := testIdx
	if len(evalIdx) == 0 {
		log.Warn(ctx, "empty test split, scoring on training rows")
		evalIdx = trainIdx
	}
	Xte, yte := m.subset(evalIdx)

	return &Result{Model: trained, Report: Score(model, Xte, yte)}, nil
}

// Score predicts every row and evaluates the result.
func Score(p classifier.Predictor, X [][common.FeatureCount]float64, y []int) Report {
	pred := make([]int, len(X))
	for i, row := range X {
		pred[i] = p.Predict(row)
	}
	return Evaluate(y, pred)
}

// EvaluateFile scores an existing model against a labelled dataset encoded
// with the model's own feature encodings.
func EvaluateFile(ctx context.Context, t *classifier.Trained, dataPath, target string, log logging.Logger) (Report, error) {
	ds, err := ReadFile(dataPath)
	if err != nil {
		return Report{}, fmt.Errorf("read dataset: %w", err)
	}

	X := make([][common.FeatureCount]float64, len(ds.Rows))
	for j, enc := range t.Features {
		col, err := ds.Column(enc.Name)
		if err != nil {
			return Report{}, err
		}
		for i, raw := range col {
			if X[i][j], err = enc.Encode(raw); err != nil {
				return Report{}, fmt.Errorf("row %d: %w", i+2, err)
			}
		}
	}

	col, err := ds.Column(target)
	if err != nil {
		return Report{}, err
	}
	y, err := encodeTarget(col)
	if err != nil {
		return Report{}, err
	}

	log.Info(ctx, "scoring", "rows", len(y))
	return Score(t, X, y), nil
}
