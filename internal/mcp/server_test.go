package mcp

import (
	"context"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connect starts s on an in-memory transport and returns a client session.
func connect(t *testing.T, s *Server) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := s.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestNewServer_RequiresDeps(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)
}

func TestServer_ListsBuiltins(t *testing.T) {
	session := connect(t, newTestServer(t))
	ctx := context.Background()

	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"jsonshape_infer",
		"jsonshape_infer_bodies",
		"jsonshape_load_samples",
		"jsonshape_list_sets",
		"jsonshape_infer_set",
		"jsonshape_field_stats",
		"jsonshape_find_samples",
		"jsonshape_validate",
	}, names)

	promptsResult, err := session.ListPrompts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, promptsResult.Prompts, 3)

	templates, err := session.ListResourceTemplates(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, templates.ResourceTemplates, 3)
}

func TestServer_CallInfer(t *testing.T) {
	session := connect(t, newTestServer(t))

	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name: "jsonshape_infer",
		Arguments: map[string]any{
			"values": []any{map[string]any{"a": 1}, map[string]any{"a": "x"}},
		},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	out, ok := result.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), out["sample_count"])
	assert.Equal(t, false, out["all_match"])
}

func TestServer_ToolErrorIsReported(t *testing.T) {
	session := connect(t, newTestServer(t))

	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "jsonshape_infer_set",
		Arguments: map[string]any{"name": "missing"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_ReadResource(t *testing.T) {
	session := connect(t, newTestServer(t))

	result, err := session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "jsonshape://set/users/schema"})
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, `"integer"`)
}

func TestWithCustomRegistration(t *testing.T) {
	called := false
	deps := newTestServer(t).deps

	_, err := NewServer(deps, WithCustomRegistration(func(srv *sdkmcp.Server) {
		called = true
	}))
	require.NoError(t, err)
	assert.True(t, called)
}
