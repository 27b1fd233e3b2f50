package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jsonshape-mcp/internal/config"
	"github.com/usestring/jsonshape-mcp/internal/mcp/tools"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		SampleCacheMaxSets: 4,
		SampleMaxPerSet:    100,
		LoadWorkers:        2,
		DefaultStatsDepth:  config.DefaultStatsDepthValue,
		DefaultFindLimit:   config.DefaultFindLimitValue,
		MaxQueryResults:    config.MaxQueryResultsValue,
	}
	deps, err := tools.NewDeps(cfg)
	require.NoError(t, err)

	deps.Store.Put("users", "inline", []any{
		map[string]any{"id": 1, "name": "a"},
		map[string]any{"id": 2},
	}, []string{"u.jsonl:1", "u.jsonl:2"})

	s, err := NewServer(deps, WithBuiltinTools(), WithBuiltinPrompts())
	require.NoError(t, err)
	return s
}

func readRequest(uri string) *sdkmcp.ReadResourceRequest {
	return &sdkmcp.ReadResourceRequest{Params: &sdkmcp.ReadResourceParams{URI: uri}}
}

func resourceJSON(t *testing.T, result *sdkmcp.ReadResourceResult) string {
	t.Helper()
	require.Len(t, result.Contents, 1)
	assert.Equal(t, tools.MimeJSON, result.Contents[0].MIMEType)
	return result.Contents[0].Text
}

func TestParseResourceURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    map[string]string
		wantErr bool
	}{
		{"jsonshape://set/users", map[string]string{"name": "users"}, false},
		{"jsonshape://set/users/schema", map[string]string{"name": "users", "view": "schema"}, false},
		{"jsonshape://set/my%20set/sample/3", map[string]string{"name": "my set", "view": "sample", "index": "3"}, false},
		{"http://set/users", nil, true},
		{"jsonshape://entry/1", nil, true},
		{"jsonshape://set/", nil, true},
		{"jsonshape://set/users/other", nil, true},
		{"jsonshape://set/users/sample", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := parseResourceURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleResourceSet(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleResourceSet(context.Background(), readRequest("jsonshape://set/users"))
	require.NoError(t, err)

	var content struct {
		Name       string   `json:"name"`
		Samples    int      `json:"samples"`
		FieldPaths []string `json:"field_paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(resourceJSON(t, result)), &content))
	assert.Equal(t, "users", content.Name)
	assert.Equal(t, 2, content.Samples)
	assert.Equal(t, []string{"id", "name"}, content.FieldPaths)
}

func TestHandleResourceSchema(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleResourceSchema(context.Background(), readRequest("jsonshape://set/users/schema"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {"id": {"type": "integer"}, "name": {"type": "string"}},
		"required": ["id"]
	}`, resourceJSON(t, result))
}

func TestHandleResourceSample(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleResourceSample(context.Background(), readRequest("jsonshape://set/users/sample/1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"index": 1, "origin": "u.jsonl:2", "value": {"id": 2}}`, resourceJSON(t, result))

	for _, uri := range []string{
		"jsonshape://set/users/sample/2",
		"jsonshape://set/users/sample/-1",
		"jsonshape://set/users/sample/x",
		"jsonshape://set/missing/sample/0",
	} {
		_, err := s.handleResourceSample(context.Background(), readRequest(uri))
		assert.Error(t, err, uri)
	}
}

func TestHandleResourceSet_NotFound(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleResourceSet(context.Background(), readRequest("jsonshape://set/missing"))
	assert.Error(t, err)

	_, err = s.handleResourceSchema(context.Background(), readRequest("jsonshape://set/missing/schema"))
	assert.Error(t, err)
}
