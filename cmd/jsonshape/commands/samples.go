package commands

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/usestring/jsonshape-mcp/internal/config"
	"github.com/usestring/jsonshape-mcp/internal/jsonl"
	"github.com/usestring/jsonshape-mcp/internal/logging"
	"github.com/usestring/jsonshape-mcp/pkg/contenttype"
)

// setup installs a stderr logger at the requested level and loads config.
func setup(cmd *cobra.Command, flags *rootFlags) (*config.Config, func() error, error) {
	cfg := config.Load()

	logCfg := logging.DefaultConfig()
	logCfg.Level = flags.logLevel
	logCfg.Output = cmd.ErrOrStderr()
	cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return cfg, cleanup, nil
}

// readSamples loads the files matching patterns, or stdin when there are none.
// Origins are "path:line" for files and "stdin:line" for stdin.
func readSamples(cmd *cobra.Command, flags *rootFlags, cfg *config.Config, patterns []string) ([]any, []string, error) {
	if len(patterns) == 0 {
		return readStdin(cmd.InOrStdin(), cfg.LoadMaxLineBytes)
	}

	root, err := workDir(flags.root)
	if err != nil {
		return nil, nil, err
	}

	loader := jsonl.NewLoader(jsonl.LoaderConfig{
		Workers:      cfg.LoadWorkers,
		MaxLineBytes: cfg.LoadMaxLineBytes,
		Timeout:      time.Duration(cfg.LoadTimeoutSeconds) * time.Second,
	})
	result, err := loader.Load(cmd.Context(), root, patterns)
	if err != nil {
		return nil, nil, err
	}
	for _, path := range result.Unsupported {
		slog.Warn("skipped file with unsupported content", slog.String("path", path))
	}
	if result.Skipped > 0 {
		slog.Warn("skipped malformed lines", slog.Int("count", result.Skipped))
	}
	if len(result.Values) == 0 {
		return nil, nil, fmt.Errorf("%d file(s) matched but none contained a readable sample", len(result.Files))
	}
	return result.Values, result.Origins, nil
}

func readStdin(r io.Reader, maxLineBytes int) ([]any, []string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading stdin: %w", err)
	}

	category := contenttype.Sniff(data)
	records, skipped, err := jsonl.Decode(data, category, maxLineBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("reading stdin (%s): %w", category, err)
	}
	if skipped > 0 {
		slog.Warn("skipped malformed lines", slog.Int("count", skipped))
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("no samples on stdin")
	}

	values := make([]any, len(records))
	origins := make([]string, len(records))
	for i, rec := range records {
		values[i] = rec.Value
		origins[i] = fmt.Sprintf("stdin:%d", rec.Line)
	}
	return values, origins, nil
}
