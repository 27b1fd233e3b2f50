package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Tool guide
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "jsonshape_guide",
		Description: "RECOMMENDED: How to choose between the jsonshape tools and read the schemas they return. Start here.",
	}, HandleGuide(cfg))

	// Prompt 2: Document a data shape
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "document_schema",
		Description: "Document JSON records from sample files as a JSON Schema with field notes (optional, nullable, enums).",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "patterns",
				Description: "Glob pattern of the sample files (e.g. 'logs/**/*.jsonl')",
				Required:    false,
			},
			{
				Name:        "expression",
				Description: "jq expression selecting the part of each record to document (e.g. '.payload')",
				Required:    false,
			},
		},
	}, HandleDocumentSchema(cfg))

	// Prompt 3: Check drift
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "check_drift",
		Description: "Find shape changes between a baseline sample set and new samples.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "baseline",
				Description: "Glob pattern of the known-good sample files",
				Required:    false,
			},
			{
				Name:        "candidate",
				Description: "Glob pattern of the new sample files",
				Required:    false,
			},
		},
	}, HandleCheckDrift(cfg))
}
