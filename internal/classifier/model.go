// Package classifier implements the severity model: a Bernoulli naive
// Bayes classifier over ten features, plus its versioned JSON artifact.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/dmitrijs2005/severity/internal/common"
)

// Predictor is what the serving path depends on.
type Predictor interface {
	Predict(features [common.FeatureCount]float64) int
}

// Model is immutable once built and safe for concurrent use.
type Model struct {
	Alpha    float64
	Binarize float64
	Classes  []int
	// ClassLogPrior[c] is log P(class c).
	ClassLogPrior []float64
	// FeatureLogProb[c][j] is log P(x_j = 1 | class c).
	FeatureLogProb [][common.FeatureCount]float64

	// log(1 - p) cached per class and feature.
	negLogProb [][common.FeatureCount]float64
}

var ErrEmptyTrainingSet = errors.New("empty training set")

// Fit trains a Bernoulli NB with additive smoothing alpha. Features are
// binarized at x > binarize before counting.
func Fit(X [][common.FeatureCount]float64, y []int, alpha, binarize float64) (*Model, error) {
	if len(X) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("%w: %d rows but %d labels", common.ErrInvalidInput, len(X), len(y))
	}
	if alpha < 0 || math.IsNaN(alpha) {
		return nil, fmt.Errorf("%w: alpha must be >= 0", common.ErrInvalidInput)
	}

	classes := slices.Clone(y)
	slices.Sort(classes)
	classes = slices.Compact(classes)
	for _, c := range classes {
		if c < common.MinSeverity || c > common.MaxSeverity {
			return nil, fmt.Errorf("%w: label %d outside %d..%d", common.ErrInvalidInput, c, common.MinSeverity, common.MaxSeverity)
		}
	}

	idx := make(map[int]int, len(classes))
	for i, c := range classes {
		idx[c] = i
	}

	classCount := make([]float64, len(classes))
	featCount := make([][common.FeatureCount]float64, len(classes))
	for i, row := range X {
		ci := idx[y[i]]
		classCount[ci]++
		for j, v := range row {
			if v > binarize {
				featCount[ci][j]++
			}
		}
	}

	m := &Model{
		Alpha:          alpha,
		Binarize:       binarize,
		Classes:        classes,
		ClassLogPrior:  make([]float64, len(classes)),
		FeatureLogProb: make([][common.FeatureCount]float64, len(classes)),
	}

	n := float64(len(X))
	for ci := range classes {
		m.ClassLogPrior[ci] = math.Log(classCount[ci] / n)
		denom := classCount[ci] + 2*alpha
		for j := 0; j < common.FeatureCount; j++ {
			m.FeatureLogProb[ci][j] = math.Log((featCount[ci][j] + alpha) / denom)
		}
	}

	if err := m.init(); err != nil {
		return nil, err
	}
	return m, nil
}

// init validates parameters and precomputes log(1-p).
func (m *Model) init() error {
	if len(m.Classes) == 0 {
		return fmt.Errorf("%w: no classes", ErrInvalidArtifact)
	}
	if len(m.ClassLogPrior) != len(m.Classes) || len(m.FeatureLogProb) != len(m.Classes) {
		return fmt.Errorf("%w: parameter shape does not match %d classes", ErrInvalidArtifact, len(m.Classes))
	}

	m.negLogProb = make([][common.FeatureCount]float64, len(m.Classes))
	seen := make(map[int]bool, len(m.Classes))
	for ci, c := range m.Classes {
		if c < common.MinSeverity || c > common.MaxSeverity {
			return fmt.Errorf("%w: class %d", ErrInvalidArtifact, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate class %d", ErrInvalidArtifact, c)
		}
		seen[c] = true
		if !isFinite(m.ClassLogPrior[ci]) {
			return fmt.Errorf("%w: class_log_prior[%d] is not finite", ErrInvalidArtifact, ci)
		}
		for j, lp := range m.FeatureLogProb[ci] {
			// a probability of exactly 1 gives log(1-p) = -Inf, which only
			// happens with alpha = 0 and is still a usable model
			if math.IsNaN(lp) || lp > 0 || math.IsInf(lp, 1) {
				return fmt.Errorf("%w: feature_log_prob[%d][%d] = %v", ErrInvalidArtifact, ci, j, lp)
			}
			m.negLogProb[ci][j] = math.Log1p(-math.Exp(lp))
		}
	}
	return nil
}

// Predict returns the class with the highest joint log likelihood. Ties go
// to the smaller class label.
func (m *Model) Predict(features [common.FeatureCount]float64) int {
	best, bestScore := 0, math.Inf(-1)
	for ci := range m.Classes {
		score := m.jointLogLikelihood(ci, features)
		if ci == 0 || score > bestScore {
			best, bestScore = ci, score
		}
	}
	return m.Classes[best]
}

func (m *Model) jointLogLikelihood(ci int, features [common.FeatureCount]float64) float64 {
	s := m.ClassLogPrior[ci]
	for j, v := range features {
		if v > m.Binarize {
			s += m.FeatureLogProb[ci][j]
		} else {
			s += m.negLogProb[ci][j]
		}
	}
	return s
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
