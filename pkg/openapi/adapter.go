// Package openapi derives the prediction form's field schema from an OpenAPI 3
// document, so the form can run against a contract file when the live schema
// endpoint is unavailable.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/sportform/predictui/pkg/schema"
)

// FieldsFromDocument loads an OpenAPI document and maps the request body of
// the named operation onto a field schema: enum properties become selects,
// everything else becomes a numeric input. Property order inside an OpenAPI
// object is not significant, so fields are emitted in sorted name order.
func FieldsFromDocument(ctx context.Context, raw []byte, operationID string) (schema.Schema, error) {
	if len(raw) == 0 {
		return schema.Schema{}, errors.New("openapi: document payload is empty")
	}
	if operationID == "" {
		return schema.Schema{}, errors.New("openapi: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("openapi: load document: %w", err)
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return schema.Schema{}, fmt.Errorf("openapi: operation %q not found", operationID)
	}

	body := requestSchema(operation)
	if body == nil {
		return schema.Schema{}, fmt.Errorf("openapi: operation %q has no request body schema", operationID)
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	out := schema.Schema{Fields: make([]schema.Field, 0, len(names))}
	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			out.Fields = append(out.Fields, schema.Field{Name: name, Kind: schema.KindNumber})
			continue
		}
		out.Fields = append(out.Fields, convertProperty(name, ref.Value))
	}
	return out, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec == nil || spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete, item.Patch,
		} {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	mt, ok := operation.RequestBody.Value.Content["application/json"]
	if !ok || mt.Schema == nil || mt.Schema.Value == nil {
		return nil
	}
	if len(mt.Schema.Value.Properties) == 0 {
		return nil
	}
	return mt.Schema.Value
}

func convertProperty(name string, src *openapi3.Schema) schema.Field {
	if len(src.Enum) > 0 {
		options := make([]string, 0, len(src.Enum))
		for _, value := range src.Enum {
			options = append(options, fmt.Sprint(value))
		}
		return schema.Field{Name: name, Kind: schema.KindSelect, Options: options}
	}
	return schema.Field{Name: name, Kind: schema.KindNumber}
}
