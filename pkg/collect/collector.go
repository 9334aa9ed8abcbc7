// Package collect turns submitted form values into the feature payload the
// prediction endpoint expects.
package collect

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/sportform/predictui/pkg/predict"
	"github.com/sportform/predictui/pkg/schema"
)

// Features walks the schema's fields over the submitted values and builds the
// feature map. Empty values are omitted entirely. Numeric fields are coerced
// to float64 when the value parses to a finite number; anything else keeps
// its original string so the server can report the problem. Submitted names
// outside the schema are ignored.
func Features(s schema.Schema, values url.Values) predict.Features {
	features := make(predict.Features, len(s.Fields))
	for _, field := range s.Fields {
		raw := values.Get(field.Name)
		if raw == "" {
			continue
		}
		features[field.Name] = coerce(field, raw)
	}
	return features
}

func coerce(field schema.Field, raw string) any {
	if field.IsSelect() {
		return raw
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return raw
	}
	return parsed
}
