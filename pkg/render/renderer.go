package render

import (
	"context"

	"github.com/sportform/predictui/pkg/predict"
	"github.com/sportform/predictui/pkg/schema"
)

// FormOptions describe per-request data renderers use to customise form
// output without reaching into page-wide state.
type FormOptions struct {
	// Values pre-populates rendered controls keyed by field name, e.g. after
	// a random fill or a text-parse round trip.
	Values map[string]string
	// Notice is an informational banner shown above the form (e.g. the
	// text parser's success message).
	Notice string
}

// Outcome carries either a prediction result or the error that stopped it.
// Exactly one of the two is set.
type Outcome struct {
	Result *predict.Result
	Err    error
}

// Renderer converts a schema or a prediction outcome into a byte
// representation (HTML for the vanilla renderer, serialized features for the
// terminal one).
type Renderer interface {
	Name() string
	ContentType() string
	RenderForm(ctx context.Context, s schema.Schema, opts FormOptions) ([]byte, error)
	RenderResult(ctx context.Context, outcome Outcome) ([]byte, error)
}
