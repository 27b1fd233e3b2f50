package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/usestring/jsonshape-mcp/internal/query"
	"github.com/usestring/jsonshape-mcp/pkg/jsonschema"
	"github.com/usestring/jsonshape-mcp/pkg/types"
)

type inferFlags struct {
	expr       string
	stats      bool
	statsDepth int
	strict     bool
	output     string
}

func newInferCmd(root *rootFlags) *cobra.Command {
	flags := &inferFlags{}

	cmd := &cobra.Command{
		Use:   "infer [pattern...]",
		Short: "Print the JSON Schema of sample files or stdin",
		Long: `Infer one JSON Schema from JSON, JSONL and YAML samples.

Patterns support ** for any depth. Without patterns, samples are read from
stdin (a JSON document, JSON lines or YAML documents).

Examples:
  jsonshape infer 'logs/**/*.jsonl'
  jsonshape infer --expr '.payload' --stats events.jsonl
  kubectl get pods -o json | jsonshape infer --expr '.items[]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfer(cmd, root, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.expr, "expr", "e", "", "jq expression selecting the values to describe")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "Include per-field statistics")
	cmd.Flags().IntVar(&flags.statsDepth, "stats-depth", 0, "Max nesting depth for field statistics (default: DEFAULT_STATS_DEPTH)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Set additionalProperties: false on every object")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "json", "Output format (json|yaml)")

	return cmd
}

func runInfer(cmd *cobra.Command, root *rootFlags, flags *inferFlags, args []string) error {
	if flags.output != "json" && flags.output != "yaml" {
		return fmt.Errorf("unknown output format %q (want json or yaml)", flags.output)
	}

	cfg, cleanup, err := setup(cmd, root)
	if err != nil {
		return err
	}
	defer cleanup()

	values, origins, err := readSamples(cmd, root, cfg, args)
	if err != nil {
		return err
	}

	if flags.expr != "" {
		result, err := query.NewEngine().SelectWithLabels(values, origins, flags.expr, cfg.MaxQueryResults)
		if err != nil {
			return err
		}
		for _, e := range result.Errors {
			slog.Warn("expression error", slog.String("error", e))
		}
		if len(result.Values) == 0 {
			return fmt.Errorf("expression %q selected no values from %d samples", flags.expr, len(values))
		}
		values = result.Values
	}

	opts := jsonschema.DefaultInferOptions()
	if flags.strict {
		closed := false
		opts.AdditionalProperties = &closed
	}

	inferred := jsonschema.InferValues(opts, values...)
	schema := inferred.Schema
	if len(values) == 1 {
		schema = jsonschema.Infer(values[0], opts)
	}

	output := types.InferOutput{
		SampleCount: inferred.SampleCount,
		AllMatch:    inferred.AllMatch,
	}
	if output.Schema, err = types.ToAny(schema); err != nil {
		return fmt.Errorf("serializing schema: %w", err)
	}
	if flags.stats {
		depth := flags.statsDepth
		if depth <= 0 {
			depth = cfg.DefaultStatsDepth
		}
		output.FieldStats = jsonschema.ComputeFieldStatsDepth(schema, values, depth)
	}

	return writeOutput(cmd, flags.output, output)
}

// writeOutput prints v as indented JSON or as YAML.
func writeOutput(cmd *cobra.Command, format string, v any) error {
	w := cmd.OutOrStdout()

	if format == "yaml" {
		generic, err := types.ToAny(v)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
