package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: jsonshape_infer
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsonshape_infer",
		Description: "Infer a JSON Schema from inline JSON values. One value is described on its own with every object key required. Several values are merged as samples of one shape: properties seen in any sample are listed, only properties present in every sample are required, and oneOf appears only where genuinely different types meet. Set field_stats=true for per-field frequency, nullability, formats and enums.",
	}, ToolInfer(d))

	// Tool 2: jsonshape_infer_bodies
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsonshape_infer_bodies",
		Description: "Infer a merged schema plus field_stats from raw bodies (JSON, NDJSON/JSONL or YAML text, optionally base64). The format comes from content_type or is sniffed. Binary or plain text bodies are reported as skipped.",
	}, ToolInferBodies(d))

	// Tool 3: jsonshape_load_samples
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsonshape_load_samples",
		Description: "Load sample files matching glob patterns (e.g. logs/**/*.jsonl) into a named sample set. JSONL files give one sample per line, JSON files one sample, YAML files one per document. Malformed lines are skipped and counted. Use the returned name with infer_set, field_stats, find_samples and validate.",
	}, ToolLoadSamples(d))

	// Tool 4: jsonshape_list_sets
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsonshape_list_sets",
		Description: "List stored sample sets with their sample counts, source patterns and number of distinct field paths",
	}, ToolListSets(d))

	// Tool 5: jsonshape_infer_set
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsonshape_infer_set",
		Description: "Infer the merged JSON Schema of a stored sample set. An optional jq expression (e.g. .payload, .events[] | select(.type == \"click\")) selects the values to describe first. Requires name from load_samples.",
	}, ToolInferSet(d))

	// Tool 6: jsonshape_field_stats
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsonshape_field_stats",
		Description: "Per-field statistics for a stored sample set: path, type (a|b for unions), frequency, required, nullable, distinct count, examples and detected format (uuid, iso8601, url, email, enum). Paths use dots for objects and [] for array items.",
	}, ToolFieldStats(d))

	// Tool 7: jsonshape_find_samples
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsonshape_find_samples",
		Description: "Find the samples of a stored set that contain a field path, or lack it with absent=true. Returns sample indices and file:line origins; set include_values=true to include the samples.",
	}, ToolFindSamples(d))

	// Tool 8: jsonshape_validate
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsonshape_validate",
		Description: "Validate inline values or a stored set against a JSON Schema, either supplied in schema or inferred from another stored set (schema_set). Returns a summary, failing values with path-prefixed errors, and the most common errors.",
	}, ToolValidate(d))
}
