package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/usestring/jsonshape-mcp/pkg/mcpsrv"
)

func main() {
	// Set up context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create MCP server with all builtin tools
	// Configuration is loaded from environment variables:
	// - LOG_LEVEL: debug, info, warn, error (default: info)
	// - LOG_FILE: path to log file (default: stderr only)
	// - SAMPLE_ROOT: directory relative sample patterns resolve against
	// - etc. (see internal/config for all options)
	server, err := mcpsrv.NewServer()
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}
	defer server.Close()

	// Run the server with stdio transport
	slog.Info("starting jsonshape MCP server on stdio")
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
