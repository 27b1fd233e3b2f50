// Package commands provides the CLI commands for jsonshape.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/usestring/jsonshape-mcp/internal/mcp"
)

// rootFlags are available to all commands.
type rootFlags struct {
	logLevel string
	root     string
}

// NewRootCmd builds the jsonshape command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "jsonshape",
		Short: "jsonshape - infer JSON Schemas from sample data",
		Long: `jsonshape infers a JSON Schema from JSON, JSONL and YAML samples.

Run 'jsonshape infer logs/*.jsonl' to print the merged schema of a set of
files, 'jsonshape validate' to check samples against a schema, or
'jsonshape serve' to start the MCP server on stdio.`,
		Version:       mcp.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&flags.root, "root", "", "Directory relative patterns resolve against (default: working directory)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("jsonshape %s\n", mcp.Version))

	rootCmd.AddCommand(newInferCmd(flags))
	rootCmd.AddCommand(newValidateCmd(flags))
	rootCmd.AddCommand(newServeCmd(flags))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// workDir returns the directory from flag or the current directory.
func workDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return os.Getwd()
}
