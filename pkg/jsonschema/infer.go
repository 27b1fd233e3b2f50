// Package jsonschema provides JSON Schema inference from arbitrary JSON data.
//
// Heterogeneous objects at the same position are merged into one object schema
// that lists every property ever seen, marking as required only the properties
// present in every sample. Arrays at the same position pool their elements into
// one array schema. A oneOf union is produced only where genuinely
// different shapes meet (a string and an integer, an object and null, ...).
package jsonschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/invopop/jsonschema"
)

// ErrNoValidSamples is returned when none of the provided samples parse as JSON.
var ErrNoValidSamples = errors.New("no valid JSON samples")

type undefined struct{}

// MarshalJSON renders undefined as null, the way JSON encoders treat absent array slots.
func (undefined) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Undefined stands in for an absent value. It infers to the empty schema {}.
var Undefined any = undefined{}

// InferredSchema contains a JSON Schema inferred from sample data along with metadata.
type InferredSchema struct {
	Schema      *jsonschema.Schema `json:"schema"`       // Merged schema
	SampleCount int                `json:"sample_count"` // Number of samples used
	AllMatch    bool               `json:"all_match"`    // True if all samples had identical schema
}

// InferOptions controls schema inference behavior.
type InferOptions struct {
	// IncludeDescription is accepted for callers that ask for described schemas.
	// It does not change the output.
	IncludeDescription bool
	// AdditionalProperties sets additionalProperties on every object schema.
	// Default: nil (not set)
	AdditionalProperties *bool
}

// DefaultInferOptions returns the default inference options.
func DefaultInferOptions() *InferOptions {
	return &InferOptions{}
}

// Infer generates a JSON Schema describing a single JSON value.
// It never fails: values with no JSON type produce the empty schema.
func Infer(v any, opts *InferOptions) *jsonschema.Schema {
	if opts == nil {
		opts = DefaultInferOptions()
	}

	schema := inferValue(normalize(v))
	if opts.AdditionalProperties != nil {
		applyAdditionalProperties(schema, *opts.AdditionalProperties)
	}
	return schema
}

// InferValues merges a set of samples that occupy the same position into one schema.
// When every sample is an array the elements are pooled and described as one array.
// Returns nil if no samples are given.
func InferValues(opts *InferOptions, values ...any) *InferredSchema {
	if len(values) == 0 {
		return nil
	}
	if opts == nil {
		opts = DefaultInferOptions()
	}

	normalized := make([]any, len(values))
	for i, v := range values {
		normalized[i] = normalize(v)
	}

	var merged *jsonschema.Schema
	if pooled, ok := poolArrays(normalized); ok {
		merged = inferArray(pooled)
	} else {
		merged = mergeValues(normalized)
	}

	if opts.AdditionalProperties != nil {
		applyAdditionalProperties(merged, *opts.AdditionalProperties)
	}

	return &InferredSchema{
		Schema:      merged,
		SampleCount: len(normalized),
		AllMatch:    allSamplesMatch(normalized),
	}
}

// InferBytes parses JSON samples and merges them into one schema.
// Samples that fail to parse are skipped.
func InferBytes(opts *InferOptions, samples ...[]byte) (*InferredSchema, error) {
	values := make([]any, 0, len(samples))
	for _, data := range samples {
		v, err := Decode(data)
		if err != nil {
			continue
		}
		values = append(values, v)
	}

	if len(values) == 0 {
		return nil, ErrNoValidSamples
	}
	return InferValues(opts, values...), nil
}

// Decode parses a single JSON document, keeping numbers as json.Number so that
// large integers are not rounded before their type is decided.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}

func inferValue(v any) *jsonschema.Schema {
	switch val := v.(type) {
	case nil:
		return &jsonschema.Schema{Type: "null"}

	case bool:
		return &jsonschema.Schema{Type: "boolean"}

	case string:
		return &jsonschema.Schema{Type: "string"}

	case float64:
		return numberSchema(val)

	case float32:
		return numberSchema(float64(val))

	case json.Number:
		if _, err := val.Int64(); err == nil {
			return &jsonschema.Schema{Type: "integer"}
		}
		f, err := val.Float64()
		if err != nil {
			return &jsonschema.Schema{Type: "number"}
		}
		return numberSchema(f)

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return &jsonschema.Schema{Type: "integer"}

	case []any:
		if val == nil {
			return &jsonschema.Schema{Type: "null"}
		}
		return inferArray(val)

	case map[string]any:
		if val == nil {
			return &jsonschema.Schema{Type: "null"}
		}
		return inferObject(val)

	default:
		// undefined or anything without a JSON type
		return &jsonschema.Schema{}
	}
}

func numberSchema(f float64) *jsonschema.Schema {
	if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Trunc(f) == f {
		return &jsonschema.Schema{Type: "integer"}
	}
	return &jsonschema.Schema{Type: "number"}
}

func inferArray(arr []any) *jsonschema.Schema {
	schema := &jsonschema.Schema{Type: "array"}

	if len(arr) == 0 {
		return schema
	}

	if objs, ok := allObjects(arr); ok {
		schema.Items = mergeObjects(objs)
		return schema
	}

	schema.Items = collapse(uniqueSchemas(arr))
	return schema
}

// inferObject describes one concrete object. Every key it has is required.
func inferObject(obj map[string]any) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}

	keys := sortedKeys(obj)
	for _, k := range keys {
		schema.Properties.Set(k, inferValue(obj[k]))
	}
	if len(keys) > 0 {
		schema.Required = keys
	}

	return schema
}

// mergeObjects builds one object schema from several object samples.
// A property is required only if every sample has it.
func mergeObjects(objs []map[string]any) *jsonschema.Schema {
	valuesByKey := make(map[string][]any)
	for _, obj := range objs {
		for k, v := range obj {
			valuesByKey[k] = append(valuesByKey[k], v)
		}
	}

	merged := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}

	keys := sortedKeys(valuesByKey)
	var required []string
	for _, k := range keys {
		values := valuesByKey[k]
		merged.Properties.Set(k, mergeValues(values))
		if len(values) == len(objs) {
			required = append(required, k)
		}
	}
	merged.Required = required

	return merged
}

// mergeValues builds one schema for values found at the same position.
func mergeValues(values []any) *jsonschema.Schema {
	if objs, ok := allObjects(values); ok {
		return mergeObjects(objs)
	}
	return collapse(uniqueSchemas(values))
}

// uniqueSchemas returns the distinct schemas of values in first-seen order.
// All object values are merged together and contribute a single entry.
// All array values pool their elements into a single array entry, so arrays
// of different element shapes differ only inside items.
func uniqueSchemas(values []any) []*jsonschema.Schema {
	var order []string
	byKey := make(map[string]*jsonschema.Schema)
	var objs []map[string]any
	var elems []any
	sawArray := false

	for _, v := range values {
		if obj, ok := asObject(v); ok {
			objs = append(objs, obj)
			continue
		}
		if arr, ok := v.([]any); ok && arr != nil {
			if !sawArray {
				sawArray = true
				order = append(order, "array")
			}
			elems = append(elems, arr...)
			continue
		}

		s := inferValue(v)
		key := structuralKey(s)
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
			byKey[key] = s
		}
	}

	if sawArray {
		byKey["array"] = inferArray(elems)
	}
	if len(objs) > 0 {
		if _, seen := byKey["object"]; !seen {
			order = append(order, "object")
		}
		byKey["object"] = mergeObjects(objs)
	}

	schemas := make([]*jsonschema.Schema, 0, len(order))
	for _, key := range order {
		schemas = append(schemas, byKey[key])
	}
	return schemas
}

// structuralKey identifies a schema's shape for deduplication inside oneOf.
func structuralKey(s *jsonschema.Schema) string {
	switch {
	case s.Type != "":
		return s.Type
	default:
		return serialize(s)
	}
}

func serialize(s *jsonschema.Schema) string {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Sprintf("%p", s)
	}
	return string(b)
}

func collapse(schemas []*jsonschema.Schema) *jsonschema.Schema {
	switch len(schemas) {
	case 0:
		return &jsonschema.Schema{}
	case 1:
		return schemas[0]
	default:
		return &jsonschema.Schema{OneOf: schemas}
	}
}

func asObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok && obj != nil
}

func allObjects(values []any) ([]map[string]any, bool) {
	if len(values) == 0 {
		return nil, false
	}
	objs := make([]map[string]any, 0, len(values))
	for _, v := range values {
		obj, ok := asObject(v)
		if !ok {
			return nil, false
		}
		objs = append(objs, obj)
	}
	return objs, true
}

// poolArrays concatenates the elements of samples that are all arrays.
func poolArrays(values []any) ([]any, bool) {
	var pooled []any
	for _, v := range values {
		arr, ok := v.([]any)
		if !ok || arr == nil {
			return nil, false
		}
		pooled = append(pooled, arr...)
	}
	if pooled == nil {
		pooled = []any{}
	}
	return pooled, true
}

func allSamplesMatch(values []any) bool {
	if len(values) < 2 {
		return true
	}
	first := serialize(inferValue(values[0]))
	for _, v := range values[1:] {
		if serialize(inferValue(v)) != first {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// applyAdditionalProperties recursively sets additionalProperties on all object schemas.
func applyAdditionalProperties(schema *jsonschema.Schema, allowed bool) {
	if schema == nil {
		return
	}

	if schema.Type == "object" {
		if allowed {
			schema.AdditionalProperties = jsonschema.TrueSchema
		} else {
			schema.AdditionalProperties = jsonschema.FalseSchema
		}

		if schema.Properties != nil {
			for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
				applyAdditionalProperties(pair.Value, allowed)
			}
		}
	}

	if schema.Type == "array" && schema.Items != nil {
		applyAdditionalProperties(schema.Items, allowed)
	}

	for _, s := range schema.OneOf {
		applyAdditionalProperties(s, allowed)
	}
}
