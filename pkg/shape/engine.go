package shape

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/usestring/jsonshape-mcp/internal/jsonl"
	"github.com/usestring/jsonshape-mcp/pkg/contenttype"
	"github.com/usestring/jsonshape-mcp/pkg/jsonschema"
)

// ErrNoSamples is returned when none of the bodies contain a parsable value.
var ErrNoSamples = errors.New("no valid samples found")

// Engine dispatches shape analysis by content type.
type Engine struct {
	statsDepth int
	opts       *jsonschema.InferOptions
}

// NewEngine creates a shape engine. A statsDepth of zero or less uses the
// default field statistics depth.
func NewEngine(statsDepth int) *Engine {
	return &Engine{statsDepth: statsDepth}
}

// WithInferOptions returns a copy of the engine that infers with opts.
func (e *Engine) WithInferOptions(opts *jsonschema.InferOptions) *Engine {
	clone := *e
	clone.opts = opts
	return &clone
}

// Analyze performs shape analysis on a set of bodies with the given content type.
// An empty or text content type is resolved by sniffing the first non-empty body.
func (e *Engine) Analyze(bodies [][]byte, ct string) (*Result, error) {
	if len(bodies) == 0 {
		return nil, fmt.Errorf("no bodies to analyze")
	}

	category := contenttype.Classify(ct)
	if ct == "" || category == contenttype.Text {
		category = sniffBodies(bodies)
	}

	var (
		values  []any
		skipped int
	)

	switch category {
	case contenttype.JSON:
		for _, body := range bodies {
			v, err := jsonschema.Decode(body)
			if err != nil {
				skipped++
				continue
			}
			values = append(values, v)
		}

	case contenttype.NDJSON:
		for _, body := range bodies {
			records, bad, err := jsonl.DecodeLines(bytes.NewReader(body), 0)
			if err != nil {
				return nil, fmt.Errorf("reading NDJSON body: %w", err)
			}
			skipped += bad
			for _, r := range records {
				values = append(values, r.Value)
			}
		}

	case contenttype.YAML:
		for _, body := range bodies {
			records, err := jsonl.DecodeYAML(body)
			if err != nil {
				skipped++
				continue
			}
			for _, r := range records {
				values = append(values, r.Value)
			}
		}

	case contenttype.Binary:
		return &Result{
			ContentCategory: string(contenttype.Binary),
			Skipped:         true,
			SkipReason:      fmt.Sprintf("binary content type: %s", ct),
		}, nil

	default:
		return &Result{
			ContentCategory: string(category),
			Skipped:         true,
			SkipReason:      fmt.Sprintf("unsupported content type: %s", ct),
		}, nil
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%s: %w", category, ErrNoSamples)
	}

	result := e.AnalyzeValues(values)
	result.ContentCategory = string(category)
	result.SkippedSamples = skipped
	return result, nil
}

// AnalyzeValues infers the schema and field statistics of already decoded values.
func (e *Engine) AnalyzeValues(values []any) *Result {
	inferred := jsonschema.InferValues(e.opts, values...)
	if inferred == nil {
		return &Result{ContentCategory: string(contenttype.JSON)}
	}

	return &Result{
		ContentCategory: string(contenttype.JSON),
		Schema:          inferred.Schema,
		FieldStats:      jsonschema.ComputeFieldStatsDepth(inferred.Schema, values, e.statsDepth),
		SampleCount:     inferred.SampleCount,
		AllMatch:        inferred.AllMatch,
	}
}

func sniffBodies(bodies [][]byte) contenttype.Category {
	for _, body := range bodies {
		if len(bytes.TrimSpace(body)) > 0 {
			return contenttype.Sniff(body)
		}
	}
	return contenttype.Text
}
