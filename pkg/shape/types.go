// Package shape analyzes raw bodies (JSON, NDJSON, YAML) and reports the
// schema and field statistics of the values they contain.
package shape

import (
	"github.com/invopop/jsonschema"

	js "github.com/usestring/jsonshape-mcp/pkg/jsonschema"
)

// Result is the outcome of a shape analysis.
type Result struct {
	ContentCategory string `json:"content_category"` // json, ndjson, yaml, text, binary

	Schema      *jsonschema.Schema `json:"schema,omitempty"`
	FieldStats  []js.FieldStat     `json:"field_stats,omitempty"`
	SampleCount int                `json:"sample_count,omitempty"`
	AllMatch    bool               `json:"all_match,omitempty"`

	// SkippedSamples counts bodies, lines or documents that failed to parse.
	SkippedSamples int `json:"skipped_samples,omitempty"`

	// Skip info (for binary or unsupported types)
	Skipped    bool   `json:"skipped,omitempty"`
	SkipReason string `json:"skip_reason,omitempty"`
}
