package classifier

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/severity/internal/common"
)

type FeatureKind string

const (
	KindNumeric     FeatureKind = "numeric"
	KindCategorical FeatureKind = "categorical"
)

// FeatureEncoding maps a raw dataset value of one feature column to the
// number the model sees. Categorical codes follow the sorted order of the
// category labels, starting at 0.
type FeatureEncoding struct {
	Name       string             `json:"name"`
	Kind       FeatureKind        `json:"kind"`
	Categories map[string]float64 `json:"categories,omitempty"`
}

// Category is one entry of a categorical legend.
type Category struct {
	Label string
	Code  float64
}

// FeatureNames returns A1..A10.
func FeatureNames() []string {
	names := make([]string, common.FeatureCount)
	for i := range names {
		names[i] = fmt.Sprintf("A%d", i+1)
	}
	return names
}

// BuildEncoding inspects the raw column values: if every value parses as a
// float the column is numeric, otherwise each distinct label gets a code.
func BuildEncoding(name string, values []string) FeatureEncoding {
	numeric := true
	for _, v := range values {
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			numeric = false
			break
		}
	}
	if numeric {
		return FeatureEncoding{Name: name, Kind: KindNumeric}
	}

	labels := make([]string, 0, len(values))
	for _, v := range values {
		labels = append(labels, strings.TrimSpace(v))
	}
	slices.Sort(labels)
	labels = slices.Compact(labels)

	cats := make(map[string]float64, len(labels))
	for i, l := range labels {
		cats[l] = float64(i)
	}
	return FeatureEncoding{Name: name, Kind: KindCategorical, Categories: cats}
}

// Encode converts one raw value.
func (e FeatureEncoding) Encode(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	switch e.Kind {
	case KindCategorical:
		code, ok := e.Categories[raw]
		if !ok {
			return 0, fmt.Errorf("%w: unknown category %q for %s", common.ErrInvalidInput, raw, e.Name)
		}
		return code, nil
	default:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not a number: %q", common.ErrInvalidInput, e.Name, raw)
		}
		return v, nil
	}
}

// Legend lists the categories ordered by code. Numeric features have none.
func (e FeatureEncoding) Legend() []Category {
	if e.Kind != KindCategorical {
		return nil
	}
	out := make([]Category, 0, len(e.Categories))
	for l, c := range e.Categories {
		out = append(out, Category{Label: l, Code: c})
	}
	slices.SortFunc(out, func(a, b Category) int {
		switch {
		case a.Code < b.Code:
			return -1
		case a.Code > b.Code:
			return 1
		}
		return strings.Compare(a.Label, b.Label)
	})
	return out
}

func (e FeatureEncoding) validate() error {
	switch e.Kind {
	case KindNumeric:
		return nil
	case KindCategorical:
		if len(e.Categories) == 0 {
			return fmt.Errorf("%w: %s has no categories", ErrInvalidArtifact, e.Name)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s has unknown kind %q", ErrInvalidArtifact, e.Name, e.Kind)
	}
}
