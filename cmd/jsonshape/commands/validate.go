package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/usestring/jsonshape-mcp/internal/validate"
)

type validateFlags struct {
	schema    string
	maxErrors int
}

func newValidateCmd(root *rootFlags) *cobra.Command {
	flags := &validateFlags{}

	cmd := &cobra.Command{
		Use:   "validate --schema schema.json [pattern...]",
		Short: "Validate samples against a JSON Schema",
		Long: `Validate every sample of the matching files (or stdin) against a JSON Schema.

Failing samples are printed as origin followed by their errors. The command
exits non-zero when any sample fails.

Examples:
  jsonshape infer baseline.jsonl > schema.json
  jsonshape validate --schema schema.json 'today/*.jsonl'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, root, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.schema, "schema", "s", "", "Path to the JSON Schema (required)")
	cmd.Flags().IntVar(&flags.maxErrors, "max-errors", 20, "Max failing samples to print (0 prints all)")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runValidate(cmd *cobra.Command, root *rootFlags, flags *validateFlags, args []string) error {
	cfg, cleanup, err := setup(cmd, root)
	if err != nil {
		return err
	}
	defer cleanup()

	data, err := os.ReadFile(flags.schema)
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}
	validator, err := validate.CompileBytes(unwrapInferOutput(data))
	if err != nil {
		return err
	}

	values, origins, err := readSamples(cmd, root, cfg, args)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	failed := 0
	for i, v := range values {
		result := validator.Validate(v)
		if result.Valid {
			continue
		}
		failed++
		if flags.maxErrors > 0 && failed > flags.maxErrors {
			continue
		}
		fmt.Fprintf(w, "%s\n", origins[i])
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d samples failed validation", failed, len(values))
	}
	fmt.Fprintf(w, "all %d samples valid\n", len(values))
	return nil
}

// unwrapInferOutput accepts the output of 'jsonshape infer' as a schema file.
func unwrapInferOutput(data []byte) []byte {
	var wrapper struct {
		Schema      json.RawMessage `json:"schema"`
		SampleCount *int            `json:"sample_count"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil || wrapper.Schema == nil || wrapper.SampleCount == nil {
		return data
	}
	return wrapper.Schema
}
