package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleGuide serves the tool usage guide.
func HandleGuide(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var sb strings.Builder

		sb.WriteString("# jsonshape Tool Guide\n\n")

		// --- Choosing a tool ---
		sb.WriteString("## Choosing a Tool\n\n")
		sb.WriteString("| Goal | Tool | Example |\n")
		sb.WriteString("|------|------|--------|\n")
		sb.WriteString("| Describe a value you already have | `jsonshape_infer` | `values: [{\"id\": 1}]` |\n")
		sb.WriteString("| Describe raw API bodies | `jsonshape_infer_bodies` | `bodies: [\"{...}\"], content_type: \"application/json\"` |\n")
		sb.WriteString("| Describe log files | `jsonshape_load_samples` then `jsonshape_infer_set` | `patterns: [\"logs/**/*.jsonl\"]` |\n")
		sb.WriteString("| Find optional fields | `jsonshape_field_stats` | `name: \"events\"` |\n")
		sb.WriteString("| See samples missing a field | `jsonshape_find_samples` | `path: \"user.email\", absent: true` |\n")
		sb.WriteString("| Check new data against a schema | `jsonshape_validate` | `name: \"today\", schema_set: \"baseline\"` |\n")

		// --- Reading schemas ---
		sb.WriteString("\n## Reading Inferred Schemas\n")
		sb.WriteString("- One value: every object key is `required`\n")
		sb.WriteString("- Several values: `properties` lists every key ever seen, `required` only keys present in every sample\n")
		sb.WriteString("- `oneOf` appears only where different types meet at one position (e.g. string and null)\n")
		sb.WriteString("- Arrays of objects describe all elements with one merged `items` object\n")
		sb.WriteString("- Arrays seen at one position share one `items` schema; an empty array adds nothing to it\n")
		sb.WriteString("- `true` (the empty schema) means nothing is known about the position\n")
		sb.WriteString("- Whole numbers are `integer`, anything with a fraction is `number`\n")

		// --- Sample sets ---
		sb.WriteString("\n## Sample Sets\n")
		if cfg.SampleRoot != "" {
			fmt.Fprintf(&sb, "- Relative patterns resolve against `%s` unless `root` is given\n", cfg.SampleRoot)
		} else {
			sb.WriteString("- Relative patterns resolve against the server's working directory unless `root` is given\n")
		}
		sb.WriteString("- `**` matches any depth: `logs/**/*.jsonl`\n")
		sb.WriteString("- `.jsonl`/`.ndjson` give one sample per line, `.json` one sample, `.yaml`/`.yml` one per document\n")
		if cfg.MaxSamplesPerSet > 0 {
			fmt.Fprintf(&sb, "- Sets keep at most %d samples; `truncated: true` tells you when more were offered\n", cfg.MaxSamplesPerSet)
		}
		sb.WriteString("- Loading with an existing name replaces that set\n")
		sb.WriteString("- `jsonshape://set/{name}` lists every field path; `jsonshape://set/{name}/sample/{index}` shows one sample\n")

		// --- Selecting with jq ---
		sb.WriteString("\n## Selecting Values with jq\n")
		sb.WriteString("`jsonshape_infer_set` and `jsonshape_field_stats` accept `expression` to describe part of each sample:\n")
		sb.WriteString("- `.payload` - one nested object per sample\n")
		sb.WriteString("- `.items[]?` - pool array elements across samples (`?` skips samples without the array)\n")
		sb.WriteString("- `select(.type == \"click\") | .data` - only samples of one kind\n")

		// --- Tips ---
		sb.WriteString("\n## Tips\n")
		sb.WriteString("- Run `jsonshape_field_stats` before writing code against a schema; frequency < 1 means the field is optional\n")
		sb.WriteString("- `format` hints (uuid, iso8601, url, email, enum) need at least 5 string samples\n")
		sb.WriteString("- Set `additional_properties: false` for a strict schema that rejects unknown keys\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guide for inferring and checking JSON shapes",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
