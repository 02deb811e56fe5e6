package pricing

import (
	"fmt"
	"sort"
)

// UnknownPolicy decides what an encoder does with a category it was not
// fitted on.
type UnknownPolicy string

const (
	UnknownIgnore UnknownPolicy = "ignore"
	UnknownError  UnknownPolicy = "error"
)

// OneHotEncoder maps one categorical value to indicator columns, one per
// fitted category.
type OneHotEncoder struct {
	feature       string
	categories    []string
	index         map[string]int
	handleUnknown UnknownPolicy
}

// NewOneHotEncoder restores an encoder from its fitted categories, keeping
// their order.
func NewOneHotEncoder(feature string, categories []string, handleUnknown UnknownPolicy) (*OneHotEncoder, error) {
	switch handleUnknown {
	case UnknownIgnore, UnknownError:
	case "":
		handleUnknown = UnknownIgnore
	default:
		return nil, fmt.Errorf("unsupported handle_unknown %q", handleUnknown)
	}
	e := &OneHotEncoder{
		feature:       feature,
		categories:    make([]string, len(categories)),
		index:         make(map[string]int, len(categories)),
		handleUnknown: handleUnknown,
	}
	copy(e.categories, categories)
	for i, c := range categories {
		if _, dup := e.index[c]; dup {
			return nil, fmt.Errorf("duplicate category %q", c)
		}
		e.index[c] = i
	}
	return e, nil
}

// FitOneHotEncoder learns the sorted set of distinct labels.
func FitOneHotEncoder(feature string, labels []string, handleUnknown UnknownPolicy) (*OneHotEncoder, error) {
	seen := make(map[string]struct{}, len(labels))
	categories := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		categories = append(categories, l)
	}
	sort.Strings(categories)
	return NewOneHotEncoder(feature, categories, handleUnknown)
}

func (e *OneHotEncoder) Feature() string { return e.feature }

func (e *OneHotEncoder) Categories() []string {
	out := make([]string, len(e.categories))
	copy(out, e.categories)
	return out
}

// FeatureNamesOut returns the indicator column names, "<feature>_<category>".
func (e *OneHotEncoder) FeatureNamesOut() []string {
	out := make([]string, len(e.categories))
	for i, c := range e.categories {
		out[i] = e.feature + "_" + c
	}
	return out
}

// Transform encodes one label. An unseen label yields all zeros unless the
// encoder was fitted with UnknownError.
func (e *OneHotEncoder) Transform(label string) ([]float64, error) {
	out := make([]float64, len(e.categories))
	i, ok := e.index[label]
	if !ok {
		if e.handleUnknown == UnknownError {
			return nil, fmt.Errorf("%w: %s=%q", ErrUnknownCategory, e.feature, label)
		}
		return out, nil
	}
	out[i] = 1
	return out, nil
}
