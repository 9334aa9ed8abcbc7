// Package tui drives the prediction form as terminal prompts, producing the
// same feature payload the web form submits.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sportform/predictui/pkg/predict"
	"github.com/sportform/predictui/pkg/render"
	"github.com/sportform/predictui/pkg/schema"
)

// Option customises the renderer.
type Option func(*Renderer)

// WithDriver swaps the prompt implementation, mainly for tests.
func WithDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// Renderer implements render.Renderer for terminal sessions: RenderForm
// prompts for every field and serialises the collected features as JSON.
type Renderer struct {
	driver PromptDriver
}

// New constructs a TUI renderer with the survey-backed driver.
func New(options ...Option) *Renderer {
	r := &Renderer{driver: newSurveyDriver()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// RenderForm prompts for each schema field in order. Empty answers skip the
// field, matching the collector's omit-empty behaviour; numeric answers are
// re-prompted until they parse.
func (r *Renderer) RenderForm(ctx context.Context, s schema.Schema, opts render.FormOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, fmt.Errorf("tui: prompt driver is nil")
	}

	features := make(predict.Features, len(s.Fields))
	for _, field := range s.Fields {
		value, ok, err := r.promptField(ctx, field, opts.Values[field.Name])
		if err != nil {
			return nil, err
		}
		if ok {
			features[field.Name] = value
		}
	}
	return json.Marshal(features)
}

// RenderResult serialises the outcome as readable text.
func (r *Renderer) RenderResult(ctx context.Context, outcome render.Outcome) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if outcome.Err != nil {
		return []byte(fmt.Sprintf("errore: %s\n", outcome.Err)), nil
	}
	return []byte(formatResult(outcome.Result)), nil
}

func (r *Renderer) promptField(ctx context.Context, field schema.Field, preset string) (any, bool, error) {
	if field.IsSelect() {
		return r.promptSelect(ctx, field, preset)
	}
	return r.promptNumber(ctx, field, preset)
}

func (r *Renderer) promptSelect(ctx context.Context, field schema.Field, preset string) (any, bool, error) {
	if len(field.Options) == 0 {
		return nil, false, nil
	}
	defaultIdx := -1
	for i, option := range field.Options {
		if preset != "" && option == preset {
			defaultIdx = i
			break
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      field.Name,
		Options:      field.Options,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return nil, false, err
	}
	if idx < 0 || idx >= len(field.Options) {
		return nil, false, nil
	}
	return field.Options[idx], true, nil
}

func (r *Renderer) promptNumber(ctx context.Context, field schema.Field, preset string) (any, bool, error) {
	for {
		raw, err := r.driver.Input(ctx, InputConfig{
			Message: field.Name,
			Default: preset,
			Help:    "invio senza valore per saltare il campo",
		})
		if err != nil {
			return nil, false, err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, false, nil
		}
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
			if infoErr := r.driver.Info(ctx, fmt.Sprintf("%s: %q non è un numero", field.Name, raw)); infoErr != nil {
				return nil, false, infoErr
			}
			continue
		}
		return parsed, true, nil
	}
}

func formatResult(result *predict.Result) string {
	if result == nil {
		result = &predict.Result{}
	}

	var b strings.Builder
	model := strings.TrimSpace(result.ModelName)
	if model == "" {
		model = "Sconosciuto"
	}
	fmt.Fprintf(&b, "modello: %s\n", model)
	if result.Prediction != nil {
		fmt.Fprintf(&b, "predizione: %v\n", result.Prediction)
	}
	if len(result.Proba) > 0 {
		labels := make([]string, 0, len(result.Proba))
		for label := range result.Proba {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(&b, "  %s: %.2f%%\n", label, result.Proba[label]*100)
		}
	}
	if len(result.UsedFeatures) > 0 {
		fmt.Fprintf(&b, "feature usate: %s\n", strings.Join(result.UsedFeatures, ", "))
	}
	if message := strings.TrimSpace(result.Message); message != "" {
		fmt.Fprintf(&b, "%s\n", message)
	}
	return b.String()
}
