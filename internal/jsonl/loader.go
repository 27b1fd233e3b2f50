package jsonl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrNoFiles is returned when no file matches the requested patterns.
var ErrNoFiles = errors.New("no files match the given patterns")

// DefaultLoadTimeout bounds a load when LoaderConfig.Timeout is unset.
const DefaultLoadTimeout = 5 * time.Minute

// LoaderConfig holds loader settings.
type LoaderConfig struct {
	Workers      int
	MaxLineBytes int
	// Timeout bounds one shared load in place of any caller's deadline.
	Timeout time.Duration
}

// Loader reads sample files in parallel.
type Loader struct {
	config   LoaderConfig
	group    singleflight.Group
	readFile func(path string, maxLineBytes int) (*File, error)
}

// LoadResult is the outcome of a Load call.
type LoadResult struct {
	Files   []string `json:"files"`
	Values  []any    `json:"-"`
	Origins []string `json:"-"` // "path:line" per value
	Skipped int      `json:"skipped"`
	// Unsupported lists matched files whose content could not be read as samples.
	Unsupported []string `json:"unsupported,omitempty"`
}

// NewLoader creates a loader. Zero config fields fall back to defaults.
func NewLoader(cfg LoaderConfig) *Loader {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.MaxLineBytes <= 0 {
		cfg.MaxLineBytes = DefaultMaxLineBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultLoadTimeout
	}
	return &Loader{config: cfg, readFile: ReadFile}
}

// Load expands patterns under root and reads every matching file.
// Concurrent calls with the same root and patterns share one read. A caller
// whose ctx ends stops waiting with ctx.Err() while the shared read goes on
// for the others.
func (l *Loader) Load(ctx context.Context, root string, patterns []string) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := root + "\x00" + strings.Join(patterns, "\x00")
	ch := l.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.config.Timeout)
		defer cancel()
		return l.load(loadCtx, root, patterns)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			slog.Debug("sample load shared with concurrent caller", slog.String("root", root))
		}
		return res.Val.(*LoadResult), nil
	}
}

func (l *Loader) load(ctx context.Context, root string, patterns []string) (*LoadResult, error) {
	start := time.Now()

	paths, err := ExpandPatterns(root, patterns)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}

	files := make([]*File, len(paths))
	unsupported := make([]bool, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.config.Workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			f, err := l.readFile(path, l.config.MaxLineBytes)
			if errors.Is(err, ErrUnsupported) {
				slog.Debug("skipping file with unsupported content",
					slog.String("path", path),
				)
				unsupported[i] = true
				return nil
			}
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading samples: %w", err)
	}

	result := &LoadResult{Files: paths}
	for i, f := range files {
		if unsupported[i] {
			result.Unsupported = append(result.Unsupported, paths[i])
			continue
		}
		result.Skipped += f.Skipped
		for _, rec := range f.Records {
			result.Values = append(result.Values, rec.Value)
			result.Origins = append(result.Origins, fmt.Sprintf("%s:%d", f.Path, rec.Line))
		}
	}

	slog.Info("samples loaded",
		slog.Int("files", len(paths)),
		slog.Int("values", len(result.Values)),
		slog.Int("skipped", result.Skipped),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return result, nil
}
