// Package predictui renders HTML forms for an ML prediction API and relays
// form submissions back to it. The root package exposes one-call helpers;
// the subpackages hold the composable pieces (schema parsing, the API
// client, renderers, the random filler).
package predictui

import (
	"context"
	"net/url"

	"github.com/sportform/predictui/pkg/collect"
	"github.com/sportform/predictui/pkg/predict"
	"github.com/sportform/predictui/pkg/render"
	"github.com/sportform/predictui/pkg/renderers/vanilla"
	"github.com/sportform/predictui/pkg/schema"
)

// Features maps field names to values sent to the prediction API.
type Features = predict.Features

// Result is a prediction response.
type Result = predict.Result

// Schema describes the form the prediction server expects.
type Schema = schema.Schema

// FormOptions carries per-request prefill values and notices into renderers.
type FormOptions = render.FormOptions

// Outcome pairs a prediction result with the error that may have replaced it.
type Outcome = render.Outcome

// DefaultRegistry returns a registry with the built-in HTML renderer
// registered. Callers add further renderers before handing it to a server.
func DefaultRegistry() *render.Registry {
	registry := render.NewRegistry()
	registry.MustRegister(vanilla.New())
	return registry
}

// GenerateForm fetches the schema from the prediction server at baseURL and
// renders it with the named renderer. It is the simplest entry point for
// callers that just want form markup.
func GenerateForm(ctx context.Context, baseURL, rendererName string, opts FormOptions) ([]byte, error) {
	client := predict.NewClient(baseURL)
	sch, err := client.Schema(ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := DefaultRegistry().Get(rendererName)
	if err != nil {
		return nil, err
	}
	return renderer.RenderForm(ctx, sch, opts)
}

// Predict coerces submitted form values against the server's schema and runs
// a prediction in one call.
func Predict(ctx context.Context, baseURL string, values url.Values) (*Result, error) {
	client := predict.NewClient(baseURL)
	sch, err := client.Schema(ctx)
	if err != nil {
		return nil, err
	}
	return client.Predict(ctx, collect.Features(sch, values))
}
