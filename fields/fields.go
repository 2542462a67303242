// Package fields is the static catalog of composable token fields. A
// field contributes its examples to field-mode generation, which emits
// the cartesian product of the enabled fields in order.
package fields

import (
	"iter"
	"math"
	"math/bits"
	"slices"
	"sort"
	"strings"

	"github.com/regginator/omniwordlist/errors"
)

// Sensitivity grades how personal a field's values are.
type Sensitivity string

const (
	SensitivityLow      Sensitivity = "low"
	SensitivityMedium   Sensitivity = "medium"
	SensitivityHigh     Sensitivity = "high"
	SensitivityVeryHigh Sensitivity = "very_high"
)

// Field is one catalog entry.
type Field struct {
	ID                  string      `json:"id" yaml:"id"`
	Category            string      `json:"category" yaml:"category"`
	Group               string      `json:"group" yaml:"group"`
	Type                string      `json:"field_type" yaml:"field_type"`
	Examples            []string    `json:"examples" yaml:"examples"`
	CardinalityEstimate uint64      `json:"cardinality_estimate" yaml:"cardinality_estimate"`
	Sensitivity         Sensitivity `json:"sensitivity" yaml:"sensitivity"`
	Dependencies        []string    `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Conflicts           []string    `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	UIHint              string      `json:"ui_hint" yaml:"ui_hint"`
	DefaultEnabled      bool        `json:"default_enabled" yaml:"default_enabled"`
	Description         string      `json:"description" yaml:"description"`
}

// catalog is built once at init and never mutated.
var (
	catalog = build()
	byID    = index(catalog)
)

func index(fs []Field) map[string]int {
	m := make(map[string]int, len(fs))
	for i, f := range fs {
		m[f.ID] = i
	}
	return m
}

// All returns every field in catalog order.
func All() []Field {
	return slices.Clone(catalog)
}

// Len returns the catalog size.
func Len() int { return len(catalog) }

// Get looks a field up by id.
func Get(id string) (Field, bool) {
	i, ok := byID[id]
	if !ok {
		return Field{}, false
	}
	return catalog[i], true
}

func where(keep func(Field) bool) []Field {
	var out []Field
	for _, f := range catalog {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// ByCategory returns the fields of one category.
func ByCategory(category string) []Field {
	return where(func(f Field) bool { return f.Category == category })
}

// ByGroup returns the fields of one group.
func ByGroup(group string) []Field {
	return where(func(f Field) bool { return f.Group == group })
}

// DefaultEnabled returns the fields enabled when none are chosen.
func DefaultEnabled() []Field {
	return where(func(f Field) bool { return f.DefaultEnabled })
}

// Categories returns the sorted distinct categories.
func Categories() []string {
	seen := make(map[string]struct{})
	for _, f := range catalog {
		seen[f.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Search matches query case-insensitively against ids, descriptions and
// examples.
func Search(query string) []Field {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	return where(func(f Field) bool {
		if strings.Contains(f.ID, q) || strings.Contains(strings.ToLower(f.Description), q) {
			return true
		}
		return slices.ContainsFunc(f.Examples, func(e string) bool {
			return strings.Contains(strings.ToLower(e), q)
		})
	})
}

func mulSat(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// EstimateCardinality multiplies the cardinality estimates of the known
// ids, saturating at MaxUint64. Unknown ids are ignored.
func EstimateCardinality(ids []string) uint64 {
	var total uint64 = 1
	for _, id := range ids {
		if f, ok := Get(id); ok {
			total = mulSat(total, f.CardinalityEstimate)
		}
	}
	return total
}

// Resolve returns the fields for ids in order. Unknown ids are a field error.
func Resolve(ids []string) ([]Field, error) {
	out := make([]Field, 0, len(ids))
	for _, id := range ids {
		f, ok := Get(id)
		if !ok {
			return nil, errors.WithHint(
				errors.Fieldf("unknown field: %s", id),
				"run `omni fields --search <term>` to find field ids",
			)
		}
		out = append(out, f)
	}
	return out, nil
}

// ValidateDependencies checks that every enabled field exists, has its
// dependencies enabled and conflicts with no other enabled field.
func ValidateDependencies(ids []string) error {
	fs, err := Resolve(ids)
	if err != nil {
		return err
	}
	enabled := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		enabled[id] = struct{}{}
	}
	for _, f := range fs {
		for _, dep := range f.Dependencies {
			if _, ok := enabled[dep]; !ok {
				return errors.Fieldf("field %s requires field %s", f.ID, dep)
			}
		}
		for _, c := range f.Conflicts {
			if _, ok := enabled[c]; ok {
				return errors.Fieldf("fields %s and %s conflict", f.ID, c)
			}
		}
	}
	return nil
}

// Count returns the number of tokens Tokens yields for fs, saturating.
func Count(fs []Field) uint64 {
	if len(fs) == 0 {
		return 0
	}
	var total uint64 = 1
	for _, f := range fs {
		total = mulSat(total, uint64(len(f.Examples)))
	}
	return total
}

// Tokens yields the cartesian product of the fields' examples. The last
// field varies fastest.
func Tokens(fs []Field) iter.Seq[string] {
	return func(yield func(string) bool) {
		if Count(fs) == 0 {
			return
		}
		idx := make([]int, len(fs))
		var sb strings.Builder
		for {
			sb.Reset()
			for i, f := range fs {
				sb.WriteString(f.Examples[idx[i]])
			}
			if !yield(sb.String()) {
				return
			}

			i := len(fs) - 1
			for i >= 0 && idx[i] == len(fs[i].Examples)-1 {
				idx[i] = 0
				i--
			}
			if i < 0 {
				return
			}
			idx[i]++
		}
	}
}
