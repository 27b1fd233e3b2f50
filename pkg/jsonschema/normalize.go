package jsonschema

import (
	"bytes"
	"encoding/json"
)

// normalize converts v into the generic shape encoding/json decodes into
// (map[string]any, []any, json.Number, ...). Values that are already in that
// shape are returned as-is. Values that cannot be marshaled become Undefined.
func normalize(v any) any {
	if isCanonical(v) {
		return v
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Undefined
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return Undefined
	}
	return out
}

func isCanonical(v any) bool {
	switch val := v.(type) {
	case nil, undefined, bool, string, float64, float32, json.Number,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case []any:
		for _, item := range val {
			if !isCanonical(item) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, item := range val {
			if !isCanonical(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
