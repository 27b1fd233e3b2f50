// Package types provides shared types for jsonshape-mcp.
// These types are used across multiple packages and are designed for external consumption.
package types

import "encoding/json"

// ToAny round-trips a typed value through JSON to produce an untyped any.
// Use this when a tool output field must be any (instead of json.RawMessage
// or a schema struct whose JSON form differs from its Go shape) to satisfy
// the MCP SDK's schema validation.
func ToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResourceRef points to an MCP resource.
type ResourceRef struct {
	URI  string `json:"uri"`
	MIME string `json:"mime"`
	Hint string `json:"hint,omitempty"`
}
