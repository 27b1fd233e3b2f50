// Package query selects sub-values from decoded samples with jq expressions
// before their schema is inferred.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/itchyny/gojq"
)

// Engine executes jq expressions against decoded JSON values.
type Engine struct{}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Result contains the values selected from a set of inputs.
type Result struct {
	Values         []any    `json:"values"`                    // Selected values, in input order
	Errors         []string `json:"errors,omitempty"`          // Per-input errors, deduplicated
	MatchedIndices []int    `json:"matched_indices,omitempty"` // Inputs that produced at least one value
	Truncated      bool     `json:"truncated,omitempty"`       // Stopped at maxResults
}

// Select runs expression over each value and collects every non-null output.
// A maxResults of zero or less means no limit.
func (e *Engine) Select(values []any, expression string, maxResults int) (*Result, error) {
	return e.SelectWithLabels(values, nil, expression, maxResults)
}

// SelectWithLabels is Select with labels identifying each input in error
// messages (e.g. "events.jsonl:12"). Missing labels fall back to "sample[i]".
func (e *Engine) SelectWithLabels(values []any, labels []string, expression string, maxResults int) (*Result, error) {
	code, err := compile(expression)
	if err != nil {
		return nil, err
	}

	result := &Result{Values: make([]any, 0)}
	seenErrors := make(map[string]bool)

	for i, input := range values {
		if maxResults > 0 && len(result.Values) >= maxResults {
			result.Truncated = true
			break
		}

		label := fmt.Sprintf("sample[%d]", i)
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}

		matched := false
		iter := code.Run(toJQ(input))
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}

			if err, isErr := v.(error); isErr {
				var haltErr *gojq.HaltError
				if errors.As(err, &haltErr) && haltErr.Value() == nil {
					break
				}
				msg := formatJQError(label, err)
				if !seenErrors[msg] {
					result.Errors = append(result.Errors, msg)
					seenErrors[msg] = true
				}
				continue
			}

			if v == nil {
				continue
			}

			if maxResults > 0 && len(result.Values) >= maxResults {
				result.Truncated = true
				break
			}
			result.Values = append(result.Values, fromJQ(v))
			matched = true
		}

		if matched {
			result.MatchedIndices = append(result.MatchedIndices, i)
		}
	}

	sort.Ints(result.MatchedIndices)
	return result, nil
}

// ValidateExpression checks if a jq expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	_, err := compile(expression)
	return err
}

func compile(expression string) (*gojq.Code, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return code, nil
}

// formatJQError creates a readable message for a jq runtime error.
//
// Runtime errors like "cannot iterate over: null" are plain errors in gojq,
// so hints are chosen by message text.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this sample)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"),
		strings.Contains(errStr, "expected an object but got"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}

// toJQ converts decoded values into the number types gojq accepts
// (int, float64, *big.Int). Integers too large for int keep their precision.
func toJQ(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = toJQ(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toJQ(item)
		}
		return out
	case json.Number:
		if i, err := val.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		if b, ok := new(big.Int).SetString(val.String(), 10); ok {
			return b
		}
		// Out-of-range magnitudes parse as ±Inf with ErrRange.
		if f, err := val.Float64(); err == nil || errors.Is(err, strconv.ErrRange) {
			return f
		}
		return val.String()
	case float32:
		return float64(val)
	case int8:
		return int(val)
	case int16:
		return int(val)
	case int32:
		return int(val)
	case int64:
		return int(val)
	case uint:
		return new(big.Int).SetUint64(uint64(val))
	case uint8:
		return int(val)
	case uint16:
		return int(val)
	case uint32:
		return int(val)
	case uint64:
		return new(big.Int).SetUint64(val)
	default:
		return v
	}
}

// Numbers beyond float64 range come back from gojq as ±Inf, which JSON
// cannot encode. They are returned as these json.Number values instead.
const (
	overflowNumber    = json.Number("1e999")
	negOverflowNumber = json.Number("-1e999")
)

// fromJQ converts gojq outputs back, turning big integers and infinities
// into json.Number.
func fromJQ(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = fromJQ(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = fromJQ(item)
		}
		return val
	case *big.Int:
		return json.Number(val.String())
	case float64:
		switch {
		case math.IsInf(val, 1):
			return overflowNumber
		case math.IsInf(val, -1):
			return negOverflowNumber
		}
		return val
	default:
		return v
	}
}
