package tools

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsonshape-mcp/pkg/shape"
	"github.com/usestring/jsonshape-mcp/pkg/types"
)

// InferInput is the input for jsonshape_infer.
type InferInput struct {
	Values               []any `json:"values" jsonschema:"JSON values to describe. One value is described on its own; several values are treated as samples of the same shape and merged."`
	IncludeDescription   bool  `json:"include_description,omitempty" jsonschema:"Accepted for compatibility; descriptions are not generated"`
	AdditionalProperties *bool `json:"additional_properties,omitempty" jsonschema:"Set additionalProperties to this value on every object schema"`
	FieldStats           bool  `json:"field_stats,omitempty" jsonschema:"Also return per-field statistics (frequency, nullability, formats, enums)"`
	StatsDepth           int   `json:"stats_depth,omitempty" jsonschema:"Max nesting depth for field statistics (default: 5)"`
}

// ToolInfer infers a JSON Schema from inline values.
func ToolInfer(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferInput) (*sdkmcp.CallToolResult, types.InferOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferInput) (*sdkmcp.CallToolResult, types.InferOutput, error) {
		if len(input.Values) == 0 {
			return nil, types.InferOutput{}, ErrInvalidInput("values must contain at least one value")
		}

		opts := inferOptions(input.IncludeDescription, input.AdditionalProperties)
		output, err := d.buildInferOutput(input.Values, opts, input.FieldStats, input.StatsDepth)
		if err != nil {
			return nil, types.InferOutput{}, err
		}

		if !input.FieldStats && len(input.Values) > 1 {
			output.Hint = "Set field_stats=true to see which optional fields appear how often."
		}
		return nil, output, nil
	}
}

// InferBodiesInput is the input for jsonshape_infer_bodies.
type InferBodiesInput struct {
	Bodies               []string `json:"bodies" jsonschema:"Raw bodies to analyze (JSON, NDJSON or YAML text)"`
	ContentType          string   `json:"content_type,omitempty" jsonschema:"Content type of the bodies, e.g. application/json or application/x-ndjson. Sniffed from the first body when empty."`
	Encoding             string   `json:"encoding,omitempty" jsonschema:"Body encoding: text (default) or base64"`
	IncludeDescription   bool     `json:"include_description,omitempty" jsonschema:"Accepted for compatibility; descriptions are not generated"`
	AdditionalProperties *bool    `json:"additional_properties,omitempty" jsonschema:"Set additionalProperties to this value on every object schema"`
}

// ToolInferBodies infers a merged schema from raw bodies through the shape engine.
func ToolInferBodies(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferBodiesInput) (*sdkmcp.CallToolResult, types.InferBodiesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferBodiesInput) (*sdkmcp.CallToolResult, types.InferBodiesOutput, error) {
		if len(input.Bodies) == 0 {
			return nil, types.InferBodiesOutput{}, ErrInvalidInput("bodies must contain at least one body")
		}

		bodies := make([][]byte, 0, len(input.Bodies))
		for i, body := range input.Bodies {
			switch input.Encoding {
			case "", "text":
				bodies = append(bodies, []byte(body))
			case "base64":
				decoded, err := base64.StdEncoding.DecodeString(body)
				if err != nil {
					return nil, types.InferBodiesOutput{}, ErrInvalidInput(fmt.Sprintf("bodies[%d] is not valid base64: %v", i, err))
				}
				bodies = append(bodies, decoded)
			default:
				return nil, types.InferBodiesOutput{}, ErrInvalidInput("encoding must be 'text' or 'base64'")
			}
		}

		engine := d.Shape.WithInferOptions(inferOptions(input.IncludeDescription, input.AdditionalProperties))
		result, err := engine.Analyze(bodies, input.ContentType)
		if errors.Is(err, shape.ErrNoSamples) {
			return nil, types.InferBodiesOutput{}, ErrInvalidInput(fmt.Sprintf("no body could be parsed (content type %q)", input.ContentType))
		}
		if err != nil {
			return nil, types.InferBodiesOutput{}, fmt.Errorf("shape analysis failed: %w", err)
		}

		output := types.InferBodiesOutput{
			ContentCategory: result.ContentCategory,
			FieldStats:      result.FieldStats,
			SampleCount:     result.SampleCount,
			AllMatch:        result.AllMatch,
			SkippedSamples:  result.SkippedSamples,
			Skipped:         result.Skipped,
			SkipReason:      result.SkipReason,
		}

		if result.Schema != nil {
			if output.Schema, err = schemaToAny(result.Schema); err != nil {
				return nil, types.InferBodiesOutput{}, err
			}
		}

		if result.SkippedSamples > 0 {
			output.Hint = fmt.Sprintf("%d sample(s) could not be parsed and were left out of the schema.", result.SkippedSamples)
		}

		return nil, output, nil
	}
}
