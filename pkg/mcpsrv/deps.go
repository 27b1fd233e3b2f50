package mcpsrv

import (
	"github.com/usestring/jsonshape-mcp/internal/config"
	"github.com/usestring/jsonshape-mcp/internal/jsonl"
	"github.com/usestring/jsonshape-mcp/internal/query"
	"github.com/usestring/jsonshape-mcp/internal/samples"
	"github.com/usestring/jsonshape-mcp/pkg/shape"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Config *config.Config
	Store  *samples.Store
	Loader *jsonl.Loader
	Query  *query.Engine
	Shape  *shape.Engine
}
