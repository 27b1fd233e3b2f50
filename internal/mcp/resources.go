package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsonshape-mcp/internal/mcp/tools"
	"github.com/usestring/jsonshape-mcp/internal/samples"
	"github.com/usestring/jsonshape-mcp/pkg/jsonschema"
)

// Resource URI scheme: jsonshape://
// Supported URIs:
//   jsonshape://set/{name}
//   jsonshape://set/{name}/schema
//   jsonshape://set/{name}/sample/{index}

const uriScheme = "jsonshape://"

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "jsonshape://set/{name}",
		Name:        "Sample Set",
		Description: "Summary of a stored sample set with every field path seen in its samples. Cheap; use it to pick paths for find_samples.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.6,
		},
	}, s.handleResourceSet)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "jsonshape://set/{name}/schema",
		Name:        "Sample Set Schema",
		Description: "Merged JSON Schema of every sample in a stored set. Same schema as jsonshape_infer_set without an expression.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant", "user"},
			Priority: 0.8,
		},
	}, s.handleResourceSchema)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "jsonshape://set/{name}/sample/{index}",
		Name:        "Sample",
		Description: "One raw sample of a stored set with its file:line origin. Indices come from jsonshape_find_samples.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.4,
		},
	}, s.handleResourceSample)
}

// setResource is the content of jsonshape://set/{name}.
type setResource struct {
	samples.Summary
	FieldPaths []string `json:"field_paths"`
}

func (s *Server) handleResourceSet(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	set, err := s.resourceSet(req.Params.URI)
	if err != nil {
		return nil, err
	}

	return toResourceResult(req.Params.URI, setResource{
		Summary:    set.Summary(),
		FieldPaths: set.Paths(),
	})
}

func (s *Server) handleResourceSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	set, err := s.resourceSet(req.Params.URI)
	if err != nil {
		return nil, err
	}

	inferred := jsonschema.InferValues(nil, set.Values...)
	if inferred == nil {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}

	return toResourceResult(req.Params.URI, inferred.Schema)
}

func (s *Server) handleResourceSample(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	set, ok := s.deps.Store.Get(params["name"])
	if !ok {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}

	index, err := strconv.Atoi(params["index"])
	if err != nil || index < 0 || index >= set.Len() {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}

	sample := samples.Sample{Index: index, Value: set.Values[index]}
	if set.Origins != nil {
		sample.Origin = set.Origins[index]
	}
	return toResourceResult(req.Params.URI, sample)
}

// resourceSet resolves the set named by a jsonshape://set/... URI.
func (s *Server) resourceSet(uri string) (*samples.Set, error) {
	params, err := parseResourceURI(uri)
	if err != nil {
		return nil, err
	}

	set, ok := s.deps.Store.Get(params["name"])
	if !ok {
		return nil, sdkmcp.ResourceNotFoundError(uri)
	}
	return set, nil
}

// Helper functions

// parseResourceURI extracts parameters from a jsonshape:// URI.
func parseResourceURI(uri string) (map[string]string, error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return nil, tools.ErrInvalidInput("invalid URI scheme: expected jsonshape://")
	}

	path := strings.TrimPrefix(uri, uriScheme)
	parts := strings.Split(path, "/")

	if parts[0] != "set" {
		return nil, tools.ErrInvalidInput(fmt.Sprintf("unknown resource type: %s", parts[0]))
	}
	if len(parts) < 2 || parts[1] == "" {
		return nil, tools.ErrInvalidInput("set URI requires a set name")
	}

	name, err := url.PathUnescape(parts[1])
	if err != nil {
		return nil, tools.ErrInvalidInput(fmt.Sprintf("invalid set name %q: %v", parts[1], err))
	}
	params := map[string]string{"name": name}

	switch {
	case len(parts) == 2:
	case len(parts) == 3 && parts[2] == "schema":
		params["view"] = "schema"
	case len(parts) == 4 && parts[2] == "sample":
		params["view"] = "sample"
		params["index"] = parts[3]
	default:
		return nil, tools.ErrInvalidInput(fmt.Sprintf("unknown set resource: %s", path))
	}

	return params, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
