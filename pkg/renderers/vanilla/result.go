package vanilla

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sportform/predictui/pkg/predict"
)

func (r *Renderer) buildError(err error) []byte {
	var builder strings.Builder
	builder.WriteString(`<div class="result error">Errore: `)
	builder.WriteString(r.sanitize(err.Error()))
	builder.WriteString("</div>\n")
	return []byte(builder.String())
}

func (r *Renderer) buildResult(result *predict.Result) []byte {
	if result == nil {
		result = &predict.Result{}
	}

	var builder strings.Builder
	builder.WriteString(`<div class="result success">` + "\n")

	modelName := strings.TrimSpace(result.ModelName)
	if modelName == "" {
		modelName = unknownModelName
	}
	builder.WriteString(`    <p class="model">Modello: `)
	builder.WriteString(r.sanitize(modelName))
	builder.WriteString("</p>\n")

	if result.Prediction != nil {
		builder.WriteString(`    <p class="prediction">Predizione: `)
		builder.WriteString(r.sanitize(fmt.Sprint(result.Prediction)))
		builder.WriteString("</p>\n")
	}

	if len(result.Proba) > 0 {
		builder.WriteString(`    <p class="proba">`)
		builder.WriteString(r.formatProba(result.Proba))
		builder.WriteString("</p>\n")
	}

	if len(result.UsedFeatures) > 0 {
		names := make([]string, 0, len(result.UsedFeatures))
		for _, name := range result.UsedFeatures {
			names = append(names, r.sanitize(name))
		}
		builder.WriteString(`    <p class="features">Feature usate: `)
		builder.WriteString(strings.Join(names, ", "))
		builder.WriteString("</p>\n")
	}

	if message := strings.TrimSpace(result.Message); message != "" {
		builder.WriteString(`    <p class="message">`)
		builder.WriteString(r.sanitize(message))
		builder.WriteString("</p>\n")
	}

	builder.WriteString("</div>\n")
	return []byte(builder.String())
}

// formatProba renders class probabilities as "label: NN.NN%" entries joined
// by " | ", sorted by label for stable output.
func (r *Renderer) formatProba(proba map[string]float64) string {
	labels := make([]string, 0, len(proba))
	for label := range proba {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, fmt.Sprintf("%s: %.2f%%", r.sanitize(label), proba[label]*100))
	}
	return strings.Join(parts, " | ")
}
