package mcpsrv

import (
	"context"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsonshape-mcp/internal/mcp/tools"
)

// serverConfig holds configuration built from options.
type serverConfig struct {
	sampleRoot string
	logLevel   string
	logFile    string

	disableBuiltinTools   bool
	disableBuiltinPrompts bool

	// preloads are sample sets loaded before the server starts serving.
	preloads []preload

	// registrations run once Deps exist, in option order.
	registrations []func(*mcp.Server, *Deps)
}

type preload struct {
	name     string
	patterns []string
}

// Option configures the server.
type Option func(*serverConfig)

// WithLogLevel overrides LOG_LEVEL (debug, info, warn, error).
func WithLogLevel(level string) Option {
	return func(cfg *serverConfig) {
		cfg.logLevel = level
	}
}

// WithLogFile overrides LOG_FILE. Rotation settings still come from the environment.
func WithLogFile(path string) Option {
	return func(cfg *serverConfig) {
		cfg.logFile = path
	}
}

// WithSampleRoot overrides SAMPLE_ROOT, the directory relative patterns resolve against.
func WithSampleRoot(dir string) Option {
	return func(cfg *serverConfig) {
		cfg.sampleRoot = dir
	}
}

// WithPreload loads the files matching patterns into the sample set name
// before the server starts, as jsonshape_load_samples would.
// NewServer fails if the patterns match no readable sample.
func WithPreload(name string, patterns ...string) Option {
	return func(cfg *serverConfig) {
		cfg.preloads = append(cfg.preloads, preload{name: name, patterns: patterns})
	}
}

// WithoutBuiltinTools leaves out the jsonshape_* tools.
func WithoutBuiltinTools() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinTools = true
	}
}

// WithoutBuiltinPrompts leaves out the builtin prompts.
func WithoutBuiltinPrompts() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinPrompts = true
	}
}

// WithTool registers a tool that needs nothing from the server.
// Its output type gets the same zero-value schema check as the builtin tools,
// so a bad type panics in NewServer rather than on the first call.
func WithTool[In, Out any](tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.registrations = append(cfg.registrations, func(srv *mcp.Server, _ *Deps) {
			tools.AddTool(srv, tool, handler)
		})
	}
}

// WithDepsTool registers a tool built from Deps, for tools that read the
// sample store, run jq selections or call the shape engine.
//
//	mcpsrv.WithDepsTool(
//	    &mcp.Tool{Name: "count_samples", Description: "Count samples in a set"},
//	    func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	        return func(ctx context.Context, req *mcp.CallToolRequest, in CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	            set, ok := d.Store.Get(in.Name)
//	            if !ok {
//	                return nil, CountOutput{}, fmt.Errorf("no sample set %q", in.Name)
//	            }
//	            return nil, CountOutput{Count: set.Len()}, nil
//	        }
//	    },
//	)
func WithDepsTool[In, Out any](tool *mcp.Tool, builder func(*Deps) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.registrations = append(cfg.registrations, func(srv *mcp.Server, deps *Deps) {
			tools.AddTool(srv, tool, builder(deps))
		})
	}
}
