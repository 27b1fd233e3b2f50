package jsonschema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/invopop/jsonschema"
)

// FieldStat contains per-field statistics computed across multiple JSON samples.
type FieldStat struct {
	Path          string   `json:"path"`                     // JSON path (e.g., "user.name", "items[].id")
	Type          string   `json:"type"`                     // JSON Schema type (string, number, object, array, etc.)
	Frequency     float64  `json:"frequency"`                // Fraction of samples containing this field (0.0-1.0)
	Required      bool     `json:"required"`                 // Present in all samples and never null
	Nullable      bool     `json:"nullable"`                 // At least one sample has null for this field
	DistinctCount int      `json:"distinct_count"`           // Number of distinct non-null values observed
	Examples      []any    `json:"examples,omitempty"`       // Up to 3 example values
	Format        string   `json:"format,omitempty"`         // Detected format: uuid, iso8601, url, email, enum
	EnumValues    []string `json:"enum_values,omitempty"`    // All distinct values when format is "enum"
}

const (
	defaultMaxDepth       = 5
	maxExamples           = 3
	minSamplesForFormat   = 5
	maxEnumDistinctValues = 10
)

var (
	uuidRegex    = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	iso8601Regex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2})?`)
	urlRegex     = regexp.MustCompile(`^https?://`)
	emailRegex   = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
)

// ComputeFieldStats walks the merged schema and computes per-field statistics
// by cross-referencing decoded samples. Returns a flat table of field stats.
func ComputeFieldStats(schema *jsonschema.Schema, samples []any) []FieldStat {
	return ComputeFieldStatsDepth(schema, samples, defaultMaxDepth)
}

// ComputeFieldStatsDepth is ComputeFieldStats with an explicit nesting limit.
func ComputeFieldStatsDepth(schema *jsonschema.Schema, samples []any, maxDepth int) []FieldStat {
	if schema == nil || len(samples) == 0 {
		return nil
	}
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	normalized := make([]any, len(samples))
	for i, s := range samples {
		normalized[i] = normalize(s)
	}

	var stats []FieldStat
	if schema.Type == "array" {
		// Array roots: describe the object items of every sample as one pool.
		items := collectRootItems(normalized)
		if objs, ok := allObjects(items); ok {
			walkSchema(mergeObjects(objs), "[]", items, 0, maxDepth, &stats)
		}
		return stats
	}

	walkSchema(schema, "", normalized, 0, maxDepth, &stats)
	return stats
}

// walkSchema recursively walks the schema and collects field stats.
func walkSchema(schema *jsonschema.Schema, path string, samples []any, depth, maxDepth int, stats *[]FieldStat) {
	if schema == nil || depth > maxDepth {
		if depth > maxDepth && path != "" {
			*stats = append(*stats, FieldStat{
				Path: path + " (truncated at depth limit)",
				Type: "...",
			})
		}
		return
	}

	if schema.Type != "object" || schema.Properties == nil {
		return
	}

	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		propName := pair.Key
		propSchema := pair.Value

		fieldPath := propName
		if path != "" {
			fieldPath = path + "." + propName
		}

		stat := computeSingleFieldStat(fieldPath, propSchema, propName, samples)
		*stats = append(*stats, stat)

		// Nested objects, including the object member of an object|null union
		if nested := objectBranch(propSchema); nested != nil {
			walkSchema(nested, fieldPath, collectNestedSamples(propName, samples), depth+1, maxDepth, stats)
		}

		// Arrays may appear as several oneOf members, so items are pooled from the samples.
		if branchOfType(propSchema, "array") != nil {
			items := collectArrayItemSamples(propName, samples)
			if objs, ok := allObjects(items); ok {
				walkSchema(mergeObjects(objs), fieldPath+"[]", items, depth+1, maxDepth, stats)
			}
		}
	}
}

// objectBranch returns schema itself when it is an object schema, or its
// object member when it is a oneOf union.
func objectBranch(schema *jsonschema.Schema) *jsonschema.Schema {
	return branchOfType(schema, "object")
}

func branchOfType(schema *jsonschema.Schema, typ string) *jsonschema.Schema {
	if schema == nil {
		return nil
	}
	if schema.Type == typ {
		return schema
	}
	for _, s := range schema.OneOf {
		if s.Type == typ {
			return s
		}
	}
	return nil
}

// computeSingleFieldStat computes statistics for a single field across all samples.
func computeSingleFieldStat(path string, schema *jsonschema.Schema, fieldName string, samples []any) FieldStat {
	totalSamples := len(samples)
	stat := FieldStat{
		Path: path,
		Type: resolveType(schema),
	}

	presentCount := 0
	nullCount := 0
	distinctValues := make(map[string]bool)
	var examples []any
	var stringValues []string

	for _, sample := range samples {
		obj, ok := sample.(map[string]any)
		if !ok {
			continue
		}

		val, exists := obj[fieldName]
		if !exists {
			continue
		}

		presentCount++

		if val == nil {
			nullCount++
			continue
		}

		// Containers count toward distinct values but their children carry the examples.
		key := fmt.Sprintf("%v", val)
		if !distinctValues[key] {
			distinctValues[key] = true
			switch val.(type) {
			case map[string]any, []any:
				// count distinct but skip example collection
			default:
				if len(examples) < maxExamples {
					examples = append(examples, val)
				}
			}
		}

		// Collect string values for format detection
		if str, ok := val.(string); ok {
			stringValues = append(stringValues, str)
		}
	}

	if totalSamples > 0 {
		stat.Frequency = float64(presentCount) / float64(totalSamples)
	}
	stat.Required = presentCount == totalSamples && nullCount == 0
	stat.Nullable = nullCount > 0
	stat.DistinctCount = len(distinctValues)
	stat.Examples = examples

	// Format detection for string fields
	if stat.Type == "string" && len(stringValues) >= minSamplesForFormat {
		stat.Format, stat.EnumValues = detectFormat(stringValues)
	}

	return stat
}

// stringFormats are checked in order; the first one every value matches wins.
var stringFormats = []struct {
	name string
	re   *regexp.Regexp
}{
	{"uuid", uuidRegex},
	{"iso8601", iso8601Regex},
	{"url", urlRegex},
	{"email", emailRegex},
}

// detectFormat detects common value formats for string fields.
func detectFormat(values []string) (string, []string) {
	if len(values) == 0 {
		return "", nil
	}

	for _, f := range stringFormats {
		if allMatch(f.re, values) {
			return f.name, nil
		}
	}

	distinct := make(map[string]bool)
	for _, v := range values {
		distinct[v] = true
	}
	if len(distinct) <= maxEnumDistinctValues {
		return "enum", sortedKeys(distinct)
	}

	return "", nil
}

func allMatch(re *regexp.Regexp, values []string) bool {
	for _, v := range values {
		if !re.MatchString(v) {
			return false
		}
	}
	return true
}

// collectNestedSamples extracts the value of a field from each sample object.
func collectNestedSamples(fieldName string, samples []any) []any {
	var nested []any
	for _, sample := range samples {
		obj, ok := sample.(map[string]any)
		if !ok {
			continue
		}
		if val, ok := asObject(obj[fieldName]); ok {
			nested = append(nested, val)
		}
	}
	return nested
}

// collectRootItems pools the object elements of array samples.
func collectRootItems(samples []any) []any {
	var items []any
	for _, sample := range samples {
		arr, ok := sample.([]any)
		if !ok {
			continue
		}
		for _, item := range arr {
			if _, ok := asObject(item); ok {
				items = append(items, item)
			}
		}
	}
	return items
}

// collectArrayItemSamples extracts all array items from a field across samples.
func collectArrayItemSamples(fieldName string, samples []any) []any {
	var items []any
	for _, sample := range samples {
		obj, ok := sample.(map[string]any)
		if !ok {
			continue
		}
		if val, exists := obj[fieldName]; exists {
			if arr, ok := val.([]any); ok {
				for _, item := range arr {
					if _, ok := asObject(item); ok {
						items = append(items, item)
					}
				}
			}
		}
	}
	return items
}

// resolveType returns the type string for a schema, joining oneOf members with "|".
func resolveType(schema *jsonschema.Schema) string {
	if schema.Type != "" {
		return schema.Type
	}
	if len(schema.OneOf) > 0 {
		types := make([]string, 0, len(schema.OneOf))
		seen := make(map[string]bool)
		for _, s := range schema.OneOf {
			if s.Type != "" && !seen[s.Type] {
				seen[s.Type] = true
				types = append(types, s.Type)
			}
		}
		return strings.Join(types, "|")
	}
	return "unknown"
}
