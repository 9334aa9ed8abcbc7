// Package vanilla renders the schema-driven prediction form and its results
// as plain HTML fragments, escaping everything that originates outside the
// process.
package vanilla

import (
	"context"

	"github.com/microcosm-cc/bluemonday"

	"github.com/sportform/predictui/pkg/render"
	"github.com/sportform/predictui/pkg/schema"
)

const (
	defaultPlaceholder = "-- seleziona --"
	unknownModelName   = "Sconosciuto"
)

// Option customises the renderer.
type Option func(*Renderer)

// WithPlaceholder overrides the disabled first entry of select controls.
func WithPlaceholder(text string) Option {
	return func(r *Renderer) {
		if text != "" {
			r.placeholder = text
		}
	}
}

// Renderer implements render.Renderer producing HTML fragments.
type Renderer struct {
	placeholder string
	sanitizer   *bluemonday.Policy
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) *Renderer {
	r := &Renderer{
		placeholder: defaultPlaceholder,
		sanitizer:   bluemonday.StrictPolicy(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// RenderForm produces one control per schema field, in declaration order.
func (r *Renderer) RenderForm(ctx context.Context, s schema.Schema, opts render.FormOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.buildForm(s, opts), nil
}

// RenderResult produces either the prediction summary or an error banner.
func (r *Renderer) RenderResult(ctx context.Context, outcome render.Outcome) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if outcome.Err != nil {
		return r.buildError(outcome.Err), nil
	}
	return r.buildResult(outcome.Result), nil
}

// sanitize strips any markup from server-supplied text before it reaches the
// page. bluemonday handles entity escaping, so the output is inserted as-is.
func (r *Renderer) sanitize(text string) string {
	return r.sanitizer.Sanitize(text)
}
