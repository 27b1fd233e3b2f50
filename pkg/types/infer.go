package types

import js "github.com/usestring/jsonshape-mcp/pkg/jsonschema"

// InferOutput is the output of the schema inference tools.
type InferOutput struct {
	// Schema is the inferred JSON Schema. The empty schema renders as true.
	Schema      any            `json:"schema"`
	SampleCount int            `json:"sample_count"`
	AllMatch    bool           `json:"all_match"`
	FieldStats  []js.FieldStat `json:"field_stats,omitempty"`

	// Selection is set when a jq expression picked the inferred values.
	Selection *SelectionSummary `json:"selection,omitempty"`

	Resource *ResourceRef `json:"resource,omitempty"`
	Hint     string       `json:"hint,omitempty"`
}

// SelectionSummary describes how a jq expression narrowed a sample set.
type SelectionSummary struct {
	Expression     string   `json:"expression"`
	SamplesScanned int      `json:"samples_scanned"`
	SamplesMatched int      `json:"samples_matched"`
	ValuesSelected int      `json:"values_selected"`
	Truncated      bool     `json:"truncated,omitempty"`
	Errors         []string `json:"errors,omitempty"`
}

// InferBodiesOutput is the output of the raw body analysis tool.
type InferBodiesOutput struct {
	ContentCategory string         `json:"content_category"`
	Schema          any            `json:"schema,omitempty"`
	FieldStats      []js.FieldStat `json:"field_stats,omitempty"`
	SampleCount     int            `json:"sample_count"`
	AllMatch        bool           `json:"all_match"`
	SkippedSamples  int            `json:"skipped_samples,omitempty"`
	Skipped         bool           `json:"skipped,omitempty"`
	SkipReason      string         `json:"skip_reason,omitempty"`
	Hint            string         `json:"hint,omitempty"`
}
