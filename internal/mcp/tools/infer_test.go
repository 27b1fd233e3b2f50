package tools

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolInfer_SingleValue(t *testing.T) {
	d := newTestDeps(t, "")
	handler := ToolInfer(d)

	_, out, err := handler(context.Background(), nil, InferInput{
		Values: []any{map[string]any{
			"name": "Alice",
			"tags": []any{"a", 1.0},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, out.SampleCount)
	assert.True(t, out.AllMatch)
	assert.Empty(t, out.FieldStats)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"tags": {"type": "array", "items": {"oneOf": [{"type": "string"}, {"type": "integer"}]}}
		},
		"required": ["name", "tags"]
	}`, toJSON(t, out.Schema))
}

func TestToolInfer_MergesSamplesWithStats(t *testing.T) {
	d := newTestDeps(t, "")
	handler := ToolInfer(d)

	_, out, err := handler(context.Background(), nil, InferInput{
		Values: []any{
			map[string]any{"id": 1.0, "email": "a@example.com"},
			map[string]any{"id": 2.0},
		},
		FieldStats: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, out.SampleCount)
	assert.False(t, out.AllMatch)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {"email": {"type": "string"}, "id": {"type": "integer"}},
		"required": ["id"]
	}`, toJSON(t, out.Schema))

	require.Len(t, out.FieldStats, 2)
	assert.Equal(t, "email", out.FieldStats[0].Path)
	assert.Equal(t, 0.5, out.FieldStats[0].Frequency)
	assert.Empty(t, out.Hint)
}

func TestToolInfer_AdditionalProperties(t *testing.T) {
	d := newTestDeps(t, "")
	closed := false

	_, out, err := ToolInfer(d)(context.Background(), nil, InferInput{
		Values:               []any{map[string]any{"a": 1.0}},
		AdditionalProperties: &closed,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {"a": {"type": "integer"}},
		"required": ["a"],
		"additionalProperties": false
	}`, toJSON(t, out.Schema))
}

func TestToolInfer_NullValue(t *testing.T) {
	d := newTestDeps(t, "")

	_, out, err := ToolInfer(d)(context.Background(), nil, InferInput{Values: []any{nil}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "null"}`, toJSON(t, out.Schema))
}

func TestToolInfer_RequiresValues(t *testing.T) {
	d := newTestDeps(t, "")

	_, _, err := ToolInfer(d)(context.Background(), nil, InferInput{})
	assertCode(t, err, ErrCodeInvalidInput)
}

func TestToolInferBodies_NDJSON(t *testing.T) {
	d := newTestDeps(t, "")

	_, out, err := ToolInferBodies(d)(context.Background(), nil, InferBodiesInput{
		Bodies:      []string{"{\"a\":1}\n{\"a\":2,\"b\":true}\n{oops\n"},
		ContentType: "application/x-ndjson",
	})
	require.NoError(t, err)

	assert.Equal(t, "ndjson", out.ContentCategory)
	assert.Equal(t, 2, out.SampleCount)
	assert.Equal(t, 1, out.SkippedSamples)
	assert.Contains(t, out.Hint, "1 sample(s)")
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {"a": {"type": "integer"}, "b": {"type": "boolean"}},
		"required": ["a"]
	}`, toJSON(t, out.Schema))
}

func TestToolInferBodies_Base64YAML(t *testing.T) {
	d := newTestDeps(t, "")
	body := base64.StdEncoding.EncodeToString([]byte("name: x\nport: 8080\n"))

	_, out, err := ToolInferBodies(d)(context.Background(), nil, InferBodiesInput{
		Bodies:      []string{body},
		ContentType: "application/yaml",
		Encoding:    "base64",
	})
	require.NoError(t, err)
	assert.Equal(t, "yaml", out.ContentCategory)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {"name": {"type": "string"}, "port": {"type": "integer"}},
		"required": ["name", "port"]
	}`, toJSON(t, out.Schema))
}

func TestToolInferBodies_Binary(t *testing.T) {
	d := newTestDeps(t, "")

	_, out, err := ToolInferBodies(d)(context.Background(), nil, InferBodiesInput{
		Bodies:      []string{"\x89PNG"},
		ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.True(t, out.Skipped)
	assert.Nil(t, out.Schema)
}

func TestToolInferBodies_Errors(t *testing.T) {
	d := newTestDeps(t, "")
	handler := ToolInferBodies(d)

	_, _, err := handler(context.Background(), nil, InferBodiesInput{})
	assertCode(t, err, ErrCodeInvalidInput)

	_, _, err = handler(context.Background(), nil, InferBodiesInput{Bodies: []string{"!!"}, Encoding: "base64"})
	assertCode(t, err, ErrCodeInvalidInput)

	_, _, err = handler(context.Background(), nil, InferBodiesInput{Bodies: []string{"{}"}, Encoding: "hex"})
	assertCode(t, err, ErrCodeInvalidInput)

	_, _, err = handler(context.Background(), nil, InferBodiesInput{Bodies: []string{"{"}, ContentType: "application/json"})
	assertCode(t, err, ErrCodeInvalidInput)
}
