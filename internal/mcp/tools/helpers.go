// Package tools contains MCP tool implementations for jsonshape.
package tools

import (
	"fmt"
	"net/url"

	invopop "github.com/invopop/jsonschema"

	"github.com/usestring/jsonshape-mcp/pkg/jsonschema"
	"github.com/usestring/jsonshape-mcp/pkg/types"
)

// MIME type constant.
const MimeJSON = "application/json"

// SetResourceURI returns the resource URI of a stored set's schema.
func SetResourceURI(name string) string {
	return fmt.Sprintf("jsonshape://set/%s/schema", url.PathEscape(name))
}

// inferOptions builds inference options from tool input flags.
func inferOptions(includeDescription bool, additionalProperties *bool) *jsonschema.InferOptions {
	return &jsonschema.InferOptions{
		IncludeDescription:   includeDescription,
		AdditionalProperties: additionalProperties,
	}
}

// schemaToAny converts a schema to its JSON form for tool outputs.
func schemaToAny(schema *invopop.Schema) (any, error) {
	v, err := types.ToAny(schema)
	if err != nil {
		return nil, fmt.Errorf("serializing schema: %w", err)
	}
	return v, nil
}

// statsDepth picks the requested depth or the configured default.
func (d *Deps) statsDepth(requested int) int {
	if requested > 0 {
		return requested
	}
	return d.Config.DefaultStatsDepth
}

// buildInferOutput infers values and fills the common output fields.
func (d *Deps) buildInferOutput(values []any, opts *jsonschema.InferOptions, withStats bool, depth int) (types.InferOutput, error) {
	var out types.InferOutput

	inferred := jsonschema.InferValues(opts, values...)
	if inferred == nil {
		return out, ErrInvalidInput("no values to infer")
	}

	schema := inferred.Schema
	if len(values) == 1 {
		schema = jsonschema.Infer(values[0], opts)
	}

	v, err := schemaToAny(schema)
	if err != nil {
		return out, err
	}

	out.Schema = v
	out.SampleCount = inferred.SampleCount
	out.AllMatch = inferred.AllMatch
	if withStats {
		out.FieldStats = jsonschema.ComputeFieldStatsDepth(schema, values, d.statsDepth(depth))
	}
	return out, nil
}
