package schema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSchema(t *testing.T) {
	raw := []byte(`{
		"fields": [
			{"name": "Gender", "type": "select", "options": ["Male", "Female", "Other"]},
			{"name": "Age", "type": "number"},
			{"name": "BMI"}
		],
		"note": "3 campi esposti."
	}`)

	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	want := Schema{
		Fields: []Field{
			{Name: "Gender", Kind: KindSelect, Options: []string{"Male", "Female", "Other"}},
			{Name: "Age", Kind: KindNumber},
			{Name: "BMI", Kind: KindNumber},
		},
		Note: "3 campi esposti.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSchemaSelectWithoutOptions(t *testing.T) {
	got, err := Parse([]byte(`{"fields": [{"name": "Grade_Level", "type": "select"}]}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	field, ok := got.Field("Grade_Level")
	if !ok {
		t.Fatal("expected Grade_Level field")
	}
	if !field.IsSelect() {
		t.Fatalf("expected select kind, got %q", field.Kind)
	}
	if field.Options == nil || len(field.Options) != 0 {
		t.Fatalf("expected empty option list, got %v", field.Options)
	}
}

func TestParseSchemaUnknownTypeDefaultsToNumber(t *testing.T) {
	got, err := Parse([]byte(`{"fields": [{"name": "Skills_Score", "type": "text"}]}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got.Fields[0].Kind != KindNumber {
		t.Fatalf("expected number fallback, got %q", got.Fields[0].Kind)
	}
}

func TestParseSchemaRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantErr string
	}{
		{
			name:    "duplicate names",
			payload: `{"fields": [{"name": "Age"}, {"name": "Age"}]}`,
			wantErr: "duplicate field name",
		},
		{
			name:    "empty name",
			payload: `{"fields": [{"name": "  "}]}`,
			wantErr: "has no name",
		},
		{
			name:    "name with spaces",
			payload: `{"fields": [{"name": "attendance rate"}]}`,
			wantErr: "not a valid control id",
		},
		{
			name:    "leading digit",
			payload: `{"fields": [{"name": "11th_grade"}]}`,
			wantErr: "not a valid control id",
		},
		{
			name:    "garbage payload",
			payload: `{"fields": "nope"}`,
			wantErr: "decode payload",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.payload))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSchemaNamesKeepsOrder(t *testing.T) {
	s := Schema{Fields: []Field{{Name: "Age"}, {Name: "BMI"}, {Name: "Gender"}}}
	got := s.Names()
	want := []string{"Age", "BMI", "Gender"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
