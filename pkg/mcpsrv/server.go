package mcpsrv

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsonshape-mcp/internal/config"
	"github.com/usestring/jsonshape-mcp/internal/logging"
	"github.com/usestring/jsonshape-mcp/internal/mcp"
	"github.com/usestring/jsonshape-mcp/internal/mcp/tools"
)

// Server is the jsonshape MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with the builtin jsonshape tools.
//
// Configuration is read from the environment; options override logging and
// the sample root, preload sample sets and add custom tools.
func NewServer(opts ...Option) (*Server, error) {
	cfg := &serverConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	conf := config.Load()
	if cfg.sampleRoot != "" {
		conf.SampleRoot = cfg.sampleRoot
	}
	if cfg.logLevel != "" {
		conf.LogLevel = cfg.logLevel
	}
	if cfg.logFile != "" {
		conf.LogFile = cfg.logFile
	}

	logCleanup, err := logging.Setup(logging.Config{
		Level:      conf.LogLevel,
		Format:     conf.LogFormat,
		FilePath:   conf.LogFile,
		MaxSizeMB:  conf.LogMaxSizeMB,
		MaxBackups: conf.LogMaxBackups,
		MaxAgeDays: conf.LogMaxAgeDays,
		Compress:   conf.LogCompress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	toolDeps, err := tools.NewDeps(conf)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create sample store: %w", err)
	}

	for _, p := range cfg.preloads {
		if err := preloadSet(toolDeps, p); err != nil {
			_ = logCleanup()
			return nil, err
		}
	}

	// Same values as toolDeps, exposed through the public type.
	deps := &Deps{
		Config: toolDeps.Config,
		Store:  toolDeps.Store,
		Loader: toolDeps.Loader,
		Query:  toolDeps.Query,
		Shape:  toolDeps.Shape,
	}

	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}
	for _, register := range cfg.registrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			register(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// preloadSet loads one WithPreload set into the store.
func preloadSet(d *tools.Deps, p preload) error {
	loaded, err := d.Loader.Load(context.Background(), d.Config.SampleRoot, p.patterns)
	if err != nil {
		return fmt.Errorf("preloading sample set %q: %w", p.name, err)
	}
	if len(loaded.Values) == 0 {
		return fmt.Errorf("preloading sample set %q: %d file(s) matched %v but none contained a readable sample",
			p.name, len(loaded.Files), p.patterns)
	}

	set := d.Store.Put(p.name, strings.Join(p.patterns, ", "), loaded.Values, loaded.Origins)
	slog.Info("preloaded sample set",
		slog.String("set", p.name),
		slog.Int("samples", set.Len()),
		slog.Int("files", len(loaded.Files)),
		slog.Int("skipped_lines", loaded.Skipped))
	return nil
}

// Run starts the MCP server with stdio transport.
// The server runs until the context is cancelled or stdin is closed.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the underlying MCP server, e.g. for in-memory transports in tests.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}
