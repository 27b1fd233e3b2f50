package tools

import (
	"time"

	"github.com/usestring/jsonshape-mcp/internal/config"
	"github.com/usestring/jsonshape-mcp/internal/jsonl"
	"github.com/usestring/jsonshape-mcp/internal/query"
	"github.com/usestring/jsonshape-mcp/internal/samples"
	"github.com/usestring/jsonshape-mcp/pkg/shape"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config *config.Config
	Store  *samples.Store
	Loader *jsonl.Loader
	Query  *query.Engine
	Shape  *shape.Engine
}

// NewDeps builds the tool dependencies from configuration.
func NewDeps(cfg *config.Config) (*Deps, error) {
	store, err := samples.NewStore(cfg.SampleCacheMaxSets, cfg.SampleMaxPerSet)
	if err != nil {
		return nil, err
	}

	return &Deps{
		Config: cfg,
		Store:  store,
		Loader: jsonl.NewLoader(jsonl.LoaderConfig{
			Workers:      cfg.LoadWorkers,
			MaxLineBytes: cfg.LoadMaxLineBytes,
			Timeout:      time.Duration(cfg.LoadTimeoutSeconds) * time.Second,
		}),
		Query: query.NewEngine(),
		Shape: shape.NewEngine(cfg.DefaultStatsDepth),
	}, nil
}

// GetSet returns a stored sample set or a NOT_FOUND error.
func (d *Deps) GetSet(name string) (*samples.Set, error) {
	if name == "" {
		return nil, ErrInvalidInput("name is required")
	}
	set, ok := d.Store.Get(name)
	if !ok {
		return nil, ErrNotFound("sample set", name)
	}
	return set, nil
}
