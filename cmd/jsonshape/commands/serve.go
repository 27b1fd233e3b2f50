package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/usestring/jsonshape-mcp/pkg/mcpsrv"
)

func newServeCmd(root *rootFlags) *cobra.Command {
	var logFile string
	var loads []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Run the jsonshape MCP server with stdio transport.

Configure it in an MCP client as the command 'jsonshape serve'. Logs go to
stderr, or to --log-file with rotation. Each --load name=glob[,glob...]
loads a sample set before the server starts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts := []mcpsrv.Option{mcpsrv.WithLogLevel(root.logLevel)}
			if root.root != "" {
				opts = append(opts, mcpsrv.WithSampleRoot(root.root))
			}
			if logFile != "" {
				opts = append(opts, mcpsrv.WithLogFile(logFile))
			}
			for _, spec := range loads {
				name, patterns, err := parseLoad(spec)
				if err != nil {
					return err
				}
				opts = append(opts, mcpsrv.WithPreload(name, patterns...))
			}

			server, err := mcpsrv.NewServer(opts...)
			if err != nil {
				return err
			}
			defer server.Close()

			slog.Info("starting jsonshape MCP server on stdio")
			if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
	cmd.Flags().StringArrayVar(&loads, "load", nil, "Preload a sample set as name=glob[,glob...] (repeatable)")

	return cmd
}

// parseLoad splits a --load value of the form name=glob[,glob...].
func parseLoad(spec string) (string, []string, error) {
	name, globs, ok := strings.Cut(spec, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("invalid --load %q: want name=glob[,glob...]", spec)
	}

	var patterns []string
	for _, g := range strings.Split(globs, ",") {
		if g = strings.TrimSpace(g); g != "" {
			patterns = append(patterns, g)
		}
	}
	if len(patterns) == 0 {
		return "", nil, fmt.Errorf("invalid --load %q: no glob pattern", spec)
	}
	return name, patterns, nil
}
