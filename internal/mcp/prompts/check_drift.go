package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleCheckDrift implements the schema drift workflow between two sample sets.
func HandleCheckDrift(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		baseline := req.Params.Arguments["baseline"]
		candidate := req.Params.Arguments["candidate"]

		var sb strings.Builder

		sb.WriteString("# Check Schema Drift\n\n")
		sb.WriteString("Compare the shape of new JSON records against a known-good baseline and report what changed.\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. Load both sample sets with `jsonshape_load_samples`:\n")
		fmt.Fprintf(&sb, "   - `name: \"baseline\"`, patterns: %s\n", orPlaceholder(baseline, "<baseline files>"))
		fmt.Fprintf(&sb, "   - `name: \"candidate\"`, patterns: %s\n", orPlaceholder(candidate, "<new files>"))
		sb.WriteString("2. `jsonshape_validate(name: \"candidate\", schema_set: \"baseline\")`\n")
		sb.WriteString("   - `common_errors` groups the differences; the most frequent ones are the real drift\n")
		sb.WriteString("   - `missing properties` means a field the baseline always had is now absent\n")
		sb.WriteString("   - `additional properties` only appears with a strict schema\n")
		sb.WriteString("3. Repeat in the other direction to find fields that disappeared from the baseline's perspective\n")
		sb.WriteString("4. Compare `jsonshape_field_stats` of both sets for frequency shifts that validation cannot show\n")
		sb.WriteString("5. Use `jsonshape_find_samples` with the failure indices to quote concrete records\n\n")

		if cfg.SampleRoot != "" {
			fmt.Fprintf(&sb, "Relative patterns resolve against `%s`.\n\n", cfg.SampleRoot)
		}

		sb.WriteString("## Output Format\n\n")
		sb.WriteString("List added fields, removed fields, type changes and frequency changes, each with one example origin (file:line).\n")

		return &sdkmcp.GetPromptResult{
			Description: "Workflow for finding shape changes between two sample sets",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return "`" + placeholder + "`"
	}
	return "`" + v + "`"
}
