package prompts

import (
	"context"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptText(t *testing.T, result *sdkmcp.GetPromptResult) string {
	t.Helper()
	require.Len(t, result.Messages, 1)
	content, ok := result.Messages[0].Content.(*sdkmcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func request(args map[string]string) *sdkmcp.GetPromptRequest {
	return &sdkmcp.GetPromptRequest{Params: &sdkmcp.GetPromptParams{Arguments: args}}
}

func TestHandleGuide(t *testing.T) {
	result, err := HandleGuide(&Config{SampleRoot: "/data", MaxSamplesPerSet: 500})(context.Background(), request(nil))
	require.NoError(t, err)

	text := promptText(t, result)
	assert.Contains(t, text, "jsonshape_load_samples")
	assert.Contains(t, text, "`/data`")
	assert.Contains(t, text, "at most 500 samples")
}

func TestHandleGuide_NoRoot(t *testing.T) {
	result, err := HandleGuide(&Config{})(context.Background(), request(nil))
	require.NoError(t, err)

	text := promptText(t, result)
	assert.Contains(t, text, "working directory")
	assert.NotContains(t, text, "at most")
}

func TestHandleDocumentSchema(t *testing.T) {
	handler := HandleDocumentSchema(&Config{})

	result, err := handler(context.Background(), request(map[string]string{
		"patterns":   "logs/*.jsonl",
		"expression": ".payload",
	}))
	require.NoError(t, err)
	text := promptText(t, result)
	assert.Contains(t, text, `expression: ".payload"`)
	assert.Contains(t, text, `patterns: ["logs/*.jsonl"]`)

	result, err = handler(context.Background(), request(nil))
	require.NoError(t, err)
	assert.Contains(t, promptText(t, result), "Ask which files")
}

func TestHandleCheckDrift(t *testing.T) {
	result, err := HandleCheckDrift(&Config{})(context.Background(), request(map[string]string{
		"baseline": "old/*.jsonl",
	}))
	require.NoError(t, err)

	text := promptText(t, result)
	assert.Contains(t, text, "`old/*.jsonl`")
	assert.Contains(t, text, "`<new files>`")
	assert.Contains(t, text, `schema_set: "baseline"`)
}
