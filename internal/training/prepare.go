package training

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/severity/internal/classifier"
	"github.com/dmitrijs2005/severity/internal/common"
)

// Matrix is the encoded training data.
type Matrix struct {
	X        [][common.FeatureCount]float64
	Y        []int
	Features []classifier.FeatureEncoding
}

// Prepare builds per-feature encodings from the dataset and encodes every
// row with them. Target values are used as-is when numeric; textual labels
// are numbered 1..K in sorted order.
func Prepare(ds *Dataset, target string) (*Matrix, error) {
	m := &Matrix{
		X:        make([][common.FeatureCount]float64, len(ds.Rows)),
		Features: make([]classifier.FeatureEncoding, 0, common.FeatureCount),
	}

	for j, name := range classifier.FeatureNames() {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		enc := classifier.BuildEncoding(name, col)
		for i, raw := range col {
			v, err := enc.Encode(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
			m.X[i][j] = v
		}
		m.Features = append(m.Features, enc)
	}

	col, err := ds.Column(target)
	if err != nil {
		return nil, err
	}
	if m.Y, err = encodeTarget(col); err != nil {
		return nil, err
	}
	return m, nil
}

func encodeTarget(col []string) ([]int, error) {
	y := make([]int, len(col))

	numeric := true
	for i, raw := range col {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			numeric = false
			break
		}
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("%w: row %d: target %q is not an integer", common.ErrInvalidInput, i+2, raw)
		}
		y[i] = int(f)
	}
	if numeric {
		return y, nil
	}

	labels := make([]string, len(col))
	for i, raw := range col {
		labels[i] = strings.TrimSpace(raw)
	}
	sorted := slices.Clone(labels)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	if len(sorted) > common.MaxSeverity {
		return nil, fmt.Errorf("%w: %d distinct target labels, at most %d allowed", common.ErrInvalidInput, len(sorted), common.MaxSeverity)
	}
	for i, l := range labels {
		pos, _ := slices.BinarySearch(sorted, l)
		y[i] = pos + 1
	}
	return y, nil
}
