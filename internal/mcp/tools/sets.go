package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsonshape-mcp/internal/samples"
	"github.com/usestring/jsonshape-mcp/pkg/jsoncompact"
	js "github.com/usestring/jsonshape-mcp/pkg/jsonschema"
	"github.com/usestring/jsonshape-mcp/pkg/types"
)

// LoadSamplesInput is the input for jsonshape_load_samples.
type LoadSamplesInput struct {
	Name     string   `json:"name" jsonschema:"Name to store the sample set under. An existing set with this name is replaced."`
	Patterns []string `json:"patterns" jsonschema:"Glob patterns of sample files, e.g. logs/**/*.jsonl. Supports ** for any depth."`
	Root     string   `json:"root,omitempty" jsonschema:"Directory relative patterns are resolved against (default: SAMPLE_ROOT or the working directory)"`
}

// LoadSamplesOutput is the output for jsonshape_load_samples.
type LoadSamplesOutput struct {
	Set          samples.Summary `json:"set"`
	Files        []string        `json:"files,omitzero"`
	Unsupported  []string        `json:"unsupported,omitempty"`
	SkippedLines int             `json:"skipped_lines"`
	Hint         string          `json:"hint,omitempty"`
}

// ToolLoadSamples loads JSONL, JSON and YAML files into a named sample set.
func ToolLoadSamples(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input LoadSamplesInput) (*sdkmcp.CallToolResult, LoadSamplesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input LoadSamplesInput) (*sdkmcp.CallToolResult, LoadSamplesOutput, error) {
		if input.Name == "" {
			return nil, LoadSamplesOutput{}, ErrInvalidInput("name is required")
		}
		if len(input.Patterns) == 0 {
			return nil, LoadSamplesOutput{}, ErrInvalidInput("patterns must contain at least one glob pattern")
		}

		root := input.Root
		if root == "" {
			root = d.Config.SampleRoot
		}

		loaded, err := d.Loader.Load(ctx, root, input.Patterns)
		if err != nil {
			return nil, LoadSamplesOutput{}, WrapLoadError(err)
		}
		if len(loaded.Values) == 0 {
			return nil, LoadSamplesOutput{}, &CodedError{
				Code:    ErrCodeLoadError,
				Message: fmt.Sprintf("%d file(s) matched but none contained a readable sample", len(loaded.Files)),
			}
		}

		set := d.Store.Put(input.Name, strings.Join(input.Patterns, ", "), loaded.Values, loaded.Origins)

		output := LoadSamplesOutput{
			Set:          set.Summary(),
			Files:        loaded.Files,
			Unsupported:  loaded.Unsupported,
			SkippedLines: loaded.Skipped,
			Hint:         fmt.Sprintf("Use jsonshape_infer_set(name=%q) for the merged schema or jsonshape_field_stats(name=%q) for per-field statistics.", input.Name, input.Name),
		}
		if set.Truncated {
			output.Hint = fmt.Sprintf("Only the first %d of %d samples were kept (SAMPLE_MAX_PER_SET). ", set.Len(), set.Total) + output.Hint
		}

		return nil, output, nil
	}
}

// ListSetsInput is the input for jsonshape_list_sets.
type ListSetsInput struct{}

// ListSetsOutput is the output for jsonshape_list_sets.
type ListSetsOutput struct {
	Sets []samples.Summary `json:"sets,omitzero"`
}

// ToolListSets lists the stored sample sets.
func ToolListSets(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListSetsInput) (*sdkmcp.CallToolResult, ListSetsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListSetsInput) (*sdkmcp.CallToolResult, ListSetsOutput, error) {
		return nil, ListSetsOutput{Sets: d.Store.List()}, nil
	}
}

// InferSetInput is the input for jsonshape_infer_set.
type InferSetInput struct {
	Name                 string `json:"name" jsonschema:"Sample set name (from jsonshape_load_samples)"`
	Expression           string `json:"expression,omitempty" jsonschema:"Optional jq expression selecting the values to describe, e.g. .payload or .items[]"`
	IncludeDescription   bool   `json:"include_description,omitempty" jsonschema:"Accepted for compatibility; descriptions are not generated"`
	AdditionalProperties *bool  `json:"additional_properties,omitempty" jsonschema:"Set additionalProperties to this value on every object schema"`
	FieldStats           bool   `json:"field_stats,omitempty" jsonschema:"Also return per-field statistics"`
	StatsDepth           int    `json:"stats_depth,omitempty" jsonschema:"Max nesting depth for field statistics (default: 5)"`
}

// ToolInferSet infers the merged schema of a stored sample set.
func ToolInferSet(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferSetInput) (*sdkmcp.CallToolResult, types.InferOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferSetInput) (*sdkmcp.CallToolResult, types.InferOutput, error) {
		set, err := d.GetSet(input.Name)
		if err != nil {
			return nil, types.InferOutput{}, err
		}

		values, selection, err := d.selectValues(set, input.Expression)
		if err != nil {
			return nil, types.InferOutput{}, err
		}

		opts := inferOptions(input.IncludeDescription, input.AdditionalProperties)
		output, err := d.buildInferOutput(values, opts, input.FieldStats, input.StatsDepth)
		if err != nil {
			return nil, types.InferOutput{}, err
		}
		output.Selection = selection

		if selection == nil {
			output.Resource = &types.ResourceRef{
				URI:  SetResourceURI(set.Name),
				MIME: MimeJSON,
				Hint: "Schema of the whole set without selection",
			}
		}
		output.Hint = fmt.Sprintf("Use jsonshape_find_samples(name=%q, path=...) to see samples missing an optional field.", set.Name)

		return nil, output, nil
	}
}

// FieldStatsInput is the input for jsonshape_field_stats.
type FieldStatsInput struct {
	Name       string `json:"name" jsonschema:"Sample set name (from jsonshape_load_samples)"`
	Expression string `json:"expression,omitempty" jsonschema:"Optional jq expression selecting the values to analyze"`
	MaxDepth   int    `json:"max_depth,omitempty" jsonschema:"Max nesting depth (default: 5)"`
	PathPrefix string `json:"path_prefix,omitempty" jsonschema:"Only return fields whose path starts with this prefix"`
}

// FieldStatsOutput is the output for jsonshape_field_stats.
type FieldStatsOutput struct {
	SampleCount int                     `json:"sample_count"`
	Fields      []js.FieldStat          `json:"fields,omitzero"`
	Selection   *types.SelectionSummary `json:"selection,omitempty"`
	Hint        string                  `json:"hint,omitempty"`
}

// ToolFieldStats computes per-field statistics for a stored sample set.
func ToolFieldStats(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input FieldStatsInput) (*sdkmcp.CallToolResult, FieldStatsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input FieldStatsInput) (*sdkmcp.CallToolResult, FieldStatsOutput, error) {
		set, err := d.GetSet(input.Name)
		if err != nil {
			return nil, FieldStatsOutput{}, err
		}

		values, selection, err := d.selectValues(set, input.Expression)
		if err != nil {
			return nil, FieldStatsOutput{}, err
		}

		inferred := js.InferValues(nil, values...)
		if inferred == nil {
			return nil, FieldStatsOutput{}, ErrInvalidInput("no values to analyze")
		}

		stats := js.ComputeFieldStatsDepth(inferred.Schema, values, d.statsDepth(input.MaxDepth))
		if input.PathPrefix != "" {
			filtered := stats[:0]
			for _, s := range stats {
				if strings.HasPrefix(s.Path, input.PathPrefix) {
					filtered = append(filtered, s)
				}
			}
			stats = filtered
		}

		output := FieldStatsOutput{
			SampleCount: inferred.SampleCount,
			Fields:      stats,
			Selection:   selection,
		}
		for _, s := range stats {
			if !s.Required && s.Frequency < 1 {
				output.Hint = fmt.Sprintf("Use jsonshape_find_samples(name=%q, path=%q, absent=true) to see samples without an optional field.", set.Name, s.Path)
				break
			}
		}

		return nil, output, nil
	}
}

// FindSamplesInput is the input for jsonshape_find_samples.
type FindSamplesInput struct {
	Name          string `json:"name" jsonschema:"Sample set name (from jsonshape_load_samples)"`
	Path          string `json:"path" jsonschema:"Field path as reported by field stats, e.g. user.email or items[].id"`
	Absent        bool   `json:"absent,omitempty" jsonschema:"Find samples that do NOT contain the path"`
	Limit         int    `json:"limit,omitempty" jsonschema:"Max samples to return (default: 50)"`
	IncludeValues bool   `json:"include_values,omitempty" jsonschema:"Include the sample values, with long arrays and strings trimmed"`
	FullValues    bool   `json:"full_values,omitempty" jsonschema:"With include_values, return the values untrimmed (can be large)"`
}

// FindSamplesOutput is the output for jsonshape_find_samples.
type FindSamplesOutput struct {
	Path      string        `json:"path"`
	Absent    bool          `json:"absent,omitempty"`
	Matches   int           `json:"matches"`
	Presence  float64       `json:"presence"`
	Samples   []FoundSample `json:"samples,omitzero"`
	Truncated bool          `json:"truncated,omitempty"`
	Hint      string        `json:"hint,omitempty"`
}

// FoundSample points at one matching sample.
type FoundSample struct {
	Index     int    `json:"index"`
	Origin    string `json:"origin,omitempty"`
	Value     any    `json:"value,omitempty"`
	Compacted bool   `json:"compacted,omitempty"`
}

// ToolFindSamples finds the samples of a set that contain (or lack) a path.
func ToolFindSamples(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input FindSamplesInput) (*sdkmcp.CallToolResult, FindSamplesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input FindSamplesInput) (*sdkmcp.CallToolResult, FindSamplesOutput, error) {
		set, err := d.GetSet(input.Name)
		if err != nil {
			return nil, FindSamplesOutput{}, err
		}
		if input.Path == "" {
			return nil, FindSamplesOutput{}, ErrInvalidInput("path is required")
		}

		limit := input.Limit
		if limit <= 0 {
			limit = d.Config.DefaultFindLimit
		}

		ids := set.WithPath(input.Path)
		if input.Absent {
			ids = set.WithoutPath(input.Path)
		}

		matches := int(ids.GetCardinality())
		found := set.Samples(ids, limit)

		output := FindSamplesOutput{
			Path:      input.Path,
			Absent:    input.Absent,
			Matches:   matches,
			Presence:  set.Presence(input.Path),
			Samples:   make([]FoundSample, 0, len(found)),
			Truncated: matches > len(found),
		}
		for _, s := range found {
			fs := FoundSample{Index: s.Index, Origin: s.Origin}
			switch {
			case input.IncludeValues && input.FullValues:
				fs.Value = s.Value
			case input.IncludeValues:
				fs.Value, fs.Compacted = jsoncompact.Value(s.Value, nil)
			}
			output.Samples = append(output.Samples, fs)
		}

		if output.Presence == 0 {
			output.Hint = fmt.Sprintf("No sample contains %q. Use jsonshape_field_stats(name=%q) to list known paths.", input.Path, set.Name)
		}

		return nil, output, nil
	}
}

// selectValues returns the set's values, or the values picked by expression.
func (d *Deps) selectValues(set *samples.Set, expression string) ([]any, *types.SelectionSummary, error) {
	if expression == "" {
		return set.Values, nil, nil
	}

	result, err := d.Query.SelectWithLabels(set.Values, set.Origins, expression, d.Config.MaxQueryResults)
	if err != nil {
		return nil, nil, ErrInvalidInput(err.Error())
	}

	selection := &types.SelectionSummary{
		Expression:     expression,
		SamplesScanned: set.Len(),
		SamplesMatched: len(result.MatchedIndices),
		ValuesSelected: len(result.Values),
		Truncated:      result.Truncated,
		Errors:         result.Errors,
	}
	if len(result.Values) == 0 {
		return nil, selection, ErrInvalidInput(fmt.Sprintf("expression %q selected no values from %d samples", expression, set.Len()))
	}

	return result.Values, selection, nil
}
