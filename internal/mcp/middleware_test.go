package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func returning(result sdkmcp.Result, err error) sdkmcp.MethodHandler {
	return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		return result, err
	}
}

func TestLoggingMiddleware_ToolCallNamesSets(t *testing.T) {
	buf := captureLogs(t)

	req := &sdkmcp.CallToolRequest{Params: &sdkmcp.CallToolParamsRaw{
		Name:      "jsonshape_validate",
		Arguments: json.RawMessage(`{"name":"events","schema_set":"baseline"}`),
	}}
	handler := LoggingMiddleware()(returning(&sdkmcp.CallToolResult{}, nil))

	result, err := handler(context.Background(), "tools/call", req)
	require.NoError(t, err)
	assert.NotNil(t, result)

	logs := buf.String()
	assert.Contains(t, logs, "method call completed")
	assert.Contains(t, logs, "method=tools/call")
	assert.Contains(t, logs, "tool=jsonshape_validate")
	assert.Contains(t, logs, "set=events")
	assert.Contains(t, logs, "schema_set=baseline")
}

func TestLoggingMiddleware_ToolErrorResult(t *testing.T) {
	buf := captureLogs(t)

	req := &sdkmcp.CallToolRequest{Params: &sdkmcp.CallToolParamsRaw{
		Name:      "jsonshape_infer_set",
		Arguments: json.RawMessage(`{"name":"missing"}`),
	}}
	failed := &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: "sample set not found: missing"}},
	}
	handler := LoggingMiddleware()(returning(failed, nil))

	_, err := handler(context.Background(), "tools/call", req)
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "level=WARN")
	assert.Contains(t, logs, "tool returned error")
	assert.Contains(t, logs, "set=missing")
	assert.Contains(t, logs, "sample set not found: missing")
}

func TestLoggingMiddleware_ResourceRead(t *testing.T) {
	buf := captureLogs(t)

	req := &sdkmcp.ReadResourceRequest{Params: &sdkmcp.ReadResourceParams{URI: "jsonshape://set/users/schema"}}
	handler := LoggingMiddleware()(returning(&sdkmcp.ReadResourceResult{}, nil))

	_, err := handler(context.Background(), "resources/read", req)
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "uri=jsonshape://set/users/schema")
	assert.Contains(t, logs, "set=users")
}

func TestLoggingMiddleware_PromptGet(t *testing.T) {
	buf := captureLogs(t)

	req := &sdkmcp.GetPromptRequest{Params: &sdkmcp.GetPromptParams{Name: "check_drift"}}
	handler := LoggingMiddleware()(returning(&sdkmcp.GetPromptResult{}, nil))

	_, err := handler(context.Background(), "prompts/get", req)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "prompt=check_drift")
}

func TestLoggingMiddleware_Error(t *testing.T) {
	buf := captureLogs(t)

	req := &sdkmcp.ReadResourceRequest{Params: &sdkmcp.ReadResourceParams{URI: "jsonshape://set/gone"}}
	handler := LoggingMiddleware()(returning(nil, errors.New("boom")))

	_, err := handler(context.Background(), "resources/read", req)
	assert.EqualError(t, err, "boom")

	logs := buf.String()
	assert.Contains(t, logs, "level=ERROR")
	assert.Contains(t, logs, "method call failed")
	assert.Contains(t, logs, "error=boom")
	assert.Contains(t, logs, "set=gone")
}

func TestLoggingMiddleware_UntypedRequest(t *testing.T) {
	buf := captureLogs(t)

	handler := LoggingMiddleware()(returning(&sdkmcp.ListToolsResult{}, nil))
	_, err := handler(context.Background(), "tools/list", nil)
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "method=tools/list")
	assert.NotContains(t, logs, "tool=")
}
