package jsoncompact

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestValue_ArrayTrimming(t *testing.T) {
	out, trimmed := Value(decode(t, `{"items": [1, 2, 3, 4, 5, 6, 7, 8, 9, 10]}`), &Options{MaxArrayItems: 3})

	assert.True(t, trimmed)
	assert.Equal(t, []any{1.0, 2.0, 3.0, "... (7 more items)"}, out.(map[string]any)["items"])
}

func TestValue_WithinLimits(t *testing.T) {
	in := decode(t, `{"items": [1, 2, 3], "name": "short"}`)

	out, trimmed := Value(in, DefaultOptions())
	assert.False(t, trimmed)
	assert.Equal(t, in, out)
}

func TestValue_NestedArrays(t *testing.T) {
	in := decode(t, `{"users": [
		{"name": "Alice", "tags": ["a", "b", "c", "d", "e"]},
		{"name": "Bob", "tags": ["x"]},
		{"name": "Charlie"},
		{"name": "Dave"}
	]}`)

	out, trimmed := Value(in, &Options{MaxArrayItems: 3})
	require.True(t, trimmed)

	users := out.(map[string]any)["users"].([]any)
	require.Len(t, users, 4)
	assert.Equal(t, "... (1 more items)", users[3])
	assert.Equal(t, []any{"a", "b", "c", "... (2 more items)"}, users[0].(map[string]any)["tags"])
	assert.Equal(t, []any{"x"}, users[1].(map[string]any)["tags"])
}

func TestValue_ObjectKeys(t *testing.T) {
	out, trimmed := Value(decode(t, `{"d": 4, "a": 1, "c": 3, "b": 2}`), &Options{MaxObjectKeys: 2})

	assert.True(t, trimmed)
	assert.Equal(t, map[string]any{"a": 1.0, "b": 2.0, MoreKey: "(2 more keys)"}, out)
}

func TestValue_StringTruncation(t *testing.T) {
	long := strings.Repeat("x", 30)

	out, trimmed := Value(map[string]any{"s": long, "short": "ok"}, &Options{MaxStringLen: 10})
	assert.True(t, trimmed)
	assert.Equal(t, strings.Repeat("x", 10)+"... (20 more bytes)", out.(map[string]any)["s"])
	assert.Equal(t, "ok", out.(map[string]any)["short"])
}

func TestValue_MaxDepth(t *testing.T) {
	out, trimmed := Value(decode(t, `{"a": {"b": {"c": 1}}, "list": [[1, 2]], "empty": {}}`), &Options{MaxDepth: 2})

	assert.True(t, trimmed)
	assert.Equal(t, map[string]any{
		"a":     map[string]any{"b": "{1 keys}"},
		"list":  []any{"[2 items]"},
		"empty": map[string]any{},
	}, out)
}

func TestValue_ScalarsAndNumbers(t *testing.T) {
	for _, v := range []any{nil, true, 1.5, json.Number("12345678901234567890"), int64(3)} {
		out, trimmed := Value(v, nil)
		assert.Equal(t, v, out)
		assert.False(t, trimmed)
	}
}

func TestValue_DoesNotMutateInput(t *testing.T) {
	in := map[string]any{"items": []any{1, 2, 3, 4, 5}}

	Value(in, &Options{MaxArrayItems: 2})
	assert.Len(t, in["items"], 5)
}
