package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleDocumentSchema implements the schema documentation workflow.
func HandleDocumentSchema(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		args := req.Params.Arguments

		patterns := ""
		expression := ""
		if args != nil {
			if v, ok := args["patterns"]; ok {
				patterns = v
			}
			if v, ok := args["expression"]; ok {
				expression = v
			}
		}

		var sb strings.Builder

		// 1. Role/Persona
		sb.WriteString("# Document a JSON Data Shape\n\n")
		sb.WriteString("You are a data engineer documenting the structure of JSON records from real samples. ")
		sb.WriteString("Your goal is an accurate JSON Schema plus notes on which fields are optional, nullable or enumerated.\n\n")

		// 2. Context usage
		sb.WriteString("## Context Usage Guide\n\n")
		sb.WriteString("- **Tools** return schemas and statistics - use these for the analysis\n")
		sb.WriteString("- **Resources** return raw samples - only fetch a sample when a statistic looks surprising\n")
		sb.WriteString("- Never paste whole sample files into the conversation; load them as a set instead\n\n")

		// 3. Workflow
		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Load samples** with `jsonshape_load_samples`\n")
		sb.WriteString("   - Check `skipped_lines` and `unsupported`: malformed records are left out\n")
		sb.WriteString("   - If `truncated` is true, say so in the documentation\n\n")
		sb.WriteString("2. **Infer the schema** with `jsonshape_infer_set`\n")
		if expression != "" {
			fmt.Fprintf(&sb, "   - Use `expression: %q` to describe the selected values\n", expression)
		} else {
			sb.WriteString("   - Add a jq `expression` if only part of each record matters\n")
		}
		sb.WriteString("   - `all_match: false` means records differ; the schema already merges them\n\n")
		sb.WriteString("3. **Review field statistics** with `jsonshape_field_stats`\n")
		sb.WriteString("   - `frequency < 1`: optional field, document when it is present\n")
		sb.WriteString("   - `nullable: true`: field can be null even when present\n")
		sb.WriteString("   - `format: enum`: list `enum_values` as the allowed values\n\n")
		sb.WriteString("4. **Investigate outliers** with `jsonshape_find_samples`\n")
		sb.WriteString("   - Look at a few samples missing an optional field to explain why\n\n")
		sb.WriteString("5. **Verify** with `jsonshape_validate(name=..., schema_set=...)`\n")
		sb.WriteString("   - After hand-editing the schema, validate the set against your edited version\n\n")

		// 4. Parameters
		if patterns != "" {
			sb.WriteString("## Parameters\n\n")
			fmt.Fprintf(&sb, "- Sample files: `%s`\n", patterns)
			if cfg.SampleRoot != "" {
				fmt.Fprintf(&sb, "- Relative to: `%s`\n", cfg.SampleRoot)
			}
			sb.WriteString("\n")
		}

		// 5. Output format
		sb.WriteString("## Output Format\n\n")
		sb.WriteString("Produce:\n")
		sb.WriteString("1. The JSON Schema (edited for readability, descriptions added per field)\n")
		sb.WriteString("2. A table of fields: path, type, required, notes\n")
		sb.WriteString("3. A short list of anomalies found in the samples\n\n")

		// 6. Start
		sb.WriteString("## Start\n\n")
		if patterns != "" {
			fmt.Fprintf(&sb, "Call `jsonshape_load_samples(name: \"docs\", patterns: [%q])`.\n", patterns)
		} else {
			sb.WriteString("Ask which files hold the samples, then call `jsonshape_load_samples`.\n")
		}

		return &sdkmcp.GetPromptResult{
			Description: "Workflow for documenting JSON records as a JSON Schema",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
