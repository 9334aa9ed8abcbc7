// Package schema models the field descriptors the prediction server exposes
// through its schema endpoint. The loose JSON payload is validated once at
// parse time so the rest of the pipeline can rely on well-formed fields.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldKind is the simplified enum for form-friendly field kinds.
type FieldKind string

const (
	// KindNumber is a free-form numeric input. It is also the fallback for
	// descriptors arriving without a recognised type.
	KindNumber FieldKind = "number"
	// KindSelect is a constrained choice over a declared option list.
	KindSelect FieldKind = "select"
)

// Field describes a single input the prediction model expects. Name doubles
// as the control identifier in rendered markup, so it must be a valid HTML id.
type Field struct {
	Name    string    `json:"name"`
	Kind    FieldKind `json:"type"`
	Options []string  `json:"options,omitempty"`
}

// IsSelect reports whether the field renders as a choice control.
func (f Field) IsSelect() bool {
	return f.Kind == KindSelect
}

// Schema is the ordered field set served by the prediction API.
type Schema struct {
	Fields []Field `json:"fields"`
	Note   string  `json:"note,omitempty"`
}

// Field looks up a descriptor by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names returns the field names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Parse decodes a schema payload and validates it. Unknown field types fall
// back to number; a select without options keeps an empty option list. Parse
// fails on duplicate names and on names that cannot serve as control ids.
func Parse(raw []byte) (Schema, error) {
	var payload struct {
		Fields []struct {
			Name    string   `json:"name"`
			Type    string   `json:"type"`
			Options []string `json:"options"`
		} `json:"fields"`
		Note string `json:"note"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Schema{}, fmt.Errorf("schema: decode payload: %w", err)
	}

	out := Schema{Note: payload.Note, Fields: make([]Field, 0, len(payload.Fields))}
	seen := make(map[string]struct{}, len(payload.Fields))
	for i, entry := range payload.Fields {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return Schema{}, fmt.Errorf("schema: field %d has no name", i)
		}
		if !validControlID(name) {
			return Schema{}, fmt.Errorf("schema: field name %q is not a valid control id", name)
		}
		if _, dup := seen[name]; dup {
			return Schema{}, fmt.Errorf("schema: duplicate field name %q", name)
		}
		seen[name] = struct{}{}

		field := Field{Name: name, Kind: KindNumber}
		if strings.EqualFold(strings.TrimSpace(entry.Type), string(KindSelect)) {
			field.Kind = KindSelect
			field.Options = entry.Options
			if field.Options == nil {
				field.Options = []string{}
			}
		}
		out.Fields = append(out.Fields, field)
	}
	return out, nil
}

func validControlID(name string) bool {
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9', r == '-':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
