package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/dmitrijs2005/severity/internal/filex"
)

// ArtifactVersion is bumped whenever the JSON layout changes.
const ArtifactVersion = 1

var ErrInvalidArtifact = errors.New("invalid model artifact")

type artifact struct {
	Version        int               `json:"version"`
	CreatedAt      time.Time         `json:"created_at"`
	Alpha          float64           `json:"alpha"`
	Binarize       float64           `json:"binarize"`
	Classes        []int             `json:"classes"`
	ClassLogPrior  []float64         `json:"class_log_prior"`
	FeatureLogProb [][]float64       `json:"feature_log_prob"`
	Features       []FeatureEncoding `json:"features"`
}

// Trained bundles a fitted model with the encodings used to build its
// training matrix. This is what gets persisted.
type Trained struct {
	*Model
	Features  []FeatureEncoding
	CreatedAt time.Time
}

// ObjectGetter fetches remote artifacts, see artifactstore.Store.
type ObjectGetter interface {
	Get(ctx context.Context, uri string) ([]byte, error)
}

// Encode writes t as indented JSON.
func (t *Trained) Encode(w io.Writer) error {
	a := artifact{
		Version:        ArtifactVersion,
		CreatedAt:      t.CreatedAt.UTC(),
		Alpha:          t.Alpha,
		Binarize:       t.Binarize,
		Classes:        t.Classes,
		ClassLogPrior:  t.ClassLogPrior,
		FeatureLogProb: make([][]float64, len(t.FeatureLogProb)),
		Features:       t.Features,
	}
	for ci, row := range t.FeatureLogProb {
		a.FeatureLogProb[ci] = append([]float64(nil), row[:]...)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

// SaveFile writes the artifact to path atomically, creating missing
// directories.
func (t *Trained) SaveFile(path string) error {
	return filex.WriteFileAtomic(path, t.Encode)
}

// Decode parses and validates an artifact.
func Decode(r io.Reader) (*Trained, error) {
	var a artifact
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	if a.Version != ArtifactVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrInvalidArtifact, a.Version, ArtifactVersion)
	}
	if len(a.Features) != common.FeatureCount {
		return nil, fmt.Errorf("%w: %d feature encodings, want %d", ErrInvalidArtifact, len(a.Features), common.FeatureCount)
	}
	for i, f := range a.Features {
		if want := fmt.Sprintf("A%d", i+1); f.Name != want {
			return nil, fmt.Errorf("%w: feature %d is %q, want %q", ErrInvalidArtifact, i, f.Name, want)
		}
		if err := f.validate(); err != nil {
			return nil, err
		}
	}

	m := &Model{
		Alpha:          a.Alpha,
		Binarize:       a.Binarize,
		Classes:        a.Classes,
		ClassLogPrior:  a.ClassLogPrior,
		FeatureLogProb: make([][common.FeatureCount]float64, len(a.FeatureLogProb)),
	}
	for ci, row := range a.FeatureLogProb {
		if len(row) != common.FeatureCount {
			return nil, fmt.Errorf("%w: feature_log_prob[%d] has %d entries, want %d", ErrInvalidArtifact, ci, len(row), common.FeatureCount)
		}
		copy(m.FeatureLogProb[ci][:], row)
	}
	if err := m.init(); err != nil {
		return nil, err
	}

	return &Trained{Model: m, Features: a.Features, CreatedAt: a.CreatedAt}, nil
}

// Load reads the artifact from a local path or, when store is non-nil and
// uri has the s3:// scheme, from object storage. Any failure is reported as
// common.ErrClassifierUnavailable.
func Load(ctx context.Context, uri string, store ObjectGetter) (*Trained, error) {
	var (
		data []byte
		err  error
	)
	if store != nil && strings.HasPrefix(uri, "s3://") {
		data, err = store.Get(ctx, uri)
	} else {
		data, err = os.ReadFile(uri)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrClassifierUnavailable, err)
	}

	t, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrClassifierUnavailable, err)
	}
	return t, nil
}
