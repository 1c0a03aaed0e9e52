package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geomcloze/pkg/cache"
	"github.com/matzehuels/geomcloze/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options, since each run works on its own scene.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// SceneOptions seed every loaded scene. Document settings override
	// them.
	SceneOptions []scene.Option

	// TTL is the lifetime of cached artifacts.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.ArtifactTTL,
	}
}

// Load imports doc with the runner's scene options.
func (r *Runner) Load(doc scene.Document) (*scene.Scene, error) {
	return Load(doc, r.Logger, r.SceneOptions...)
}

// Execute runs the load → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, doc scene.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	loadStart := time.Now()
	s, err := r.Load(doc)
	if err != nil {
		return nil, err
	}
	applyOverrides(s, opts)
	result.DocHash, err = Hash(s)
	if err != nil {
		return nil, fmt.Errorf("hash document: %w", err)
	}
	result.Stats.Elements = s.Len()
	result.Stats.LoadTime = time.Since(loadStart)

	opts.Logger.Debug("loaded document",
		"elements", result.Stats.Elements,
		"hash", result.DocHash[:12],
		"duration", result.Stats.LoadTime)

	renderStart := time.Now()
	w, h := s.Size()
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(result.DocHash, opts.ArtifactKeyOpts(format, w, h))
		data, hit, err := r.cached(ctx, key, opts.Refresh, "artifact", func() ([]byte, error) {
			return renderFormat(ctx, s, painter(opts), format, opts)
		})
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		result.Artifacts[format] = data
		allCached = allCached && hit
	}
	result.CacheInfo.RenderHit = allCached
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", allCached,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Topology draws the ownership tree of doc in each requested format.
func (r *Runner) Topology(ctx context.Context, doc scene.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForTopology(); err != nil {
		return nil, err
	}

	s, err := r.Load(doc)
	if err != nil {
		return nil, err
	}
	result := &Result{Artifacts: make(map[string][]byte)}
	if result.DocHash, err = Hash(s); err != nil {
		return nil, fmt.Errorf("hash document: %w", err)
	}
	result.Stats.Elements = s.Len()

	start := time.Now()
	allCached := true
	for _, format := range opts.Formats {
		variant := format
		if opts.Detailed {
			variant += "+detailed"
		}
		key := r.Keyer.TopologyKey(result.DocHash, variant)
		data, hit, err := r.cached(ctx, key, opts.Refresh, "topology", func() ([]byte, error) {
			return RenderTopology(ctx, s, format, opts)
		})
		if err != nil {
			return nil, fmt.Errorf("topology %s: %w", format, err)
		}
		result.Artifacts[format] = data
		allCached = allCached && hit
	}
	result.CacheInfo.RenderHit = allCached
	result.Stats.RenderTime = time.Since(start)
	return result, nil
}

// Normalize imports doc, repairing it, and returns the re-export.
func (r *Runner) Normalize(doc scene.Document) (scene.Document, error) {
	s, err := r.Load(doc)
	if err != nil {
		return scene.Document{}, err
	}
	return s.Export(), nil
}

func (r *Runner) cached(ctx context.Context, key string, refresh bool, keyType string, build func() ([]byte, error)) ([]byte, bool, error) {
	if !refresh {
		return cache.GetOrBuild(ctx, r.Cache, key, r.TTL, keyType, build)
	}
	data, err := build()
	if err != nil {
		return nil, false, err
	}
	_ = r.Cache.Set(ctx, key, data, r.TTL)
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
