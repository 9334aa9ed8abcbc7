// Package randomfill synthesises plausible test values for a schema's fields.
// Numeric ranges come from an ordered rule table keyed on name substrings;
// the first matching rule wins.
package randomfill

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/sportform/predictui/pkg/schema"
)

type rule struct {
	match func(name string) bool
	gen   func(r *rand.Rand) string
}

func contains(substrings ...string) func(string) bool {
	return func(name string) bool {
		for _, s := range substrings {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}
}

func intRange(lo, hi int) func(*rand.Rand) string {
	return func(r *rand.Rand) string {
		return fmt.Sprintf("%d", lo+r.Intn(hi-lo+1))
	}
}

// rules is evaluated top to bottom against the lowercased field name, so the
// more specific substrings (bmi before score, final_grade before grade) must
// stay ahead of the generic ones.
var rules = []rule{
	{match: contains("age"), gen: intRange(12, 20)},
	{match: contains("bmi"), gen: func(r *rand.Rand) string {
		return fmt.Sprintf("%.1f", 16+r.Float64()*14)
	}},
	{match: contains("hours", "per_week"), gen: intRange(0, 14)},
	{match: contains("rate", "percent"), gen: intRange(60, 100)},
	{match: contains("level"), gen: intRange(1, 5)},
	{match: func(name string) bool {
		return strings.Contains(name, "final_grade") ||
			strings.Contains(name, "previous") ||
			strings.HasSuffix(name, "grade")
	}, gen: intRange(60, 100)},
	{match: contains("participation"), gen: intRange(1, 5)},
	{match: contains("motivation"), gen: intRange(1, 5)},
	{match: contains("knowledge", "skills"), gen: intRange(40, 100)},
	{match: contains("score"), gen: intRange(40, 100)},
	{match: contains("improvement"), gen: intRange(0, 30)},
}

// Value produces a random display value for a single field. Selects pick one
// of the declared options uniformly; selects without options yield "".
func Value(field schema.Field, r *rand.Rand) string {
	if field.IsSelect() {
		if len(field.Options) == 0 {
			return ""
		}
		return field.Options[r.Intn(len(field.Options))]
	}
	return NumericValue(field.Name, r)
}

// NumericValue applies the heuristic rule table to a field name. Names that
// match no rule fall back to a uniform integer in [0,100].
func NumericValue(name string, r *rand.Rand) string {
	lower := strings.ToLower(name)
	for _, rule := range rules {
		if rule.match(lower) {
			return rule.gen(r)
		}
	}
	return intRange(0, 100)(r)
}

// Values fills every field of the schema, keyed by field name.
func Values(s schema.Schema, r *rand.Rand) map[string]string {
	out := make(map[string]string, len(s.Fields))
	for _, field := range s.Fields {
		if v := Value(field, r); v != "" {
			out[field.Name] = v
		}
	}
	return out
}
