package vanilla

import (
	"html"
	"strings"

	"github.com/sportform/predictui/pkg/render"
	"github.com/sportform/predictui/pkg/schema"
)

func (r *Renderer) buildForm(s schema.Schema, opts render.FormOptions) []byte {
	var builder strings.Builder
	builder.Grow(len(s.Fields) * 192)

	if notice := strings.TrimSpace(opts.Notice); notice != "" {
		builder.WriteString(`<div class="banner success">`)
		builder.WriteString(r.sanitize(notice))
		builder.WriteString("</div>\n")
	}

	for _, field := range s.Fields {
		value := ""
		if opts.Values != nil {
			value = opts.Values[field.Name]
		}
		r.buildField(&builder, field, value)
	}
	return []byte(builder.String())
}

func (r *Renderer) buildField(builder *strings.Builder, field schema.Field, value string) {
	name := html.EscapeString(field.Name)

	builder.WriteString(`<div class="field">` + "\n")
	builder.WriteString(`    <label for="`)
	builder.WriteString(name)
	builder.WriteString(`">`)
	builder.WriteString(name)
	builder.WriteString("</label>\n")

	if field.IsSelect() {
		r.buildSelect(builder, field, value)
	} else {
		r.buildNumberInput(builder, field, value)
	}

	builder.WriteString("</div>\n")
}

func (r *Renderer) buildSelect(builder *strings.Builder, field schema.Field, value string) {
	name := html.EscapeString(field.Name)

	builder.WriteString(`    <select id="`)
	builder.WriteString(name)
	builder.WriteString(`" name="`)
	builder.WriteString(name)
	builder.WriteString(`">` + "\n")

	// The placeholder stays selected until a prefill value matches an option
	// by its value or display text.
	selectedIdx := -1
	for i, option := range field.Options {
		if value != "" && option == value {
			selectedIdx = i
			break
		}
	}

	builder.WriteString(`        <option value="" disabled`)
	if selectedIdx < 0 {
		builder.WriteString(` selected`)
	}
	builder.WriteString(`>`)
	builder.WriteString(html.EscapeString(r.placeholder))
	builder.WriteString("</option>\n")

	for i, option := range field.Options {
		escaped := html.EscapeString(option)
		builder.WriteString(`        <option value="`)
		builder.WriteString(escaped)
		builder.WriteString(`"`)
		if i == selectedIdx {
			builder.WriteString(` selected`)
		}
		builder.WriteString(`>`)
		builder.WriteString(escaped)
		builder.WriteString("</option>\n")
	}

	builder.WriteString("    </select>\n")
}

func (r *Renderer) buildNumberInput(builder *strings.Builder, field schema.Field, value string) {
	name := html.EscapeString(field.Name)

	builder.WriteString(`    <input type="number" id="`)
	builder.WriteString(name)
	builder.WriteString(`" name="`)
	builder.WriteString(name)
	builder.WriteString(`" step="any"`)
	if value != "" {
		builder.WriteString(` value="`)
		builder.WriteString(html.EscapeString(value))
		builder.WriteString(`"`)
	}
	builder.WriteString(">\n")
}
