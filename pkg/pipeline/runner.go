package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dayview/pkg/cache"
	pkgio "github.com/matzehuels/dayview/pkg/io"
	"github.com/matzehuels/dayview/pkg/layout"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no pipeline results, only the cache, keyer and logger.
// Multiple goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means [cache.DefaultKeyer], a nil
// cache disables caching and a nil logger means log.Default().
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
	}
}

// Execute runs load → layout → render. A stored layout as input skips the
// layout stage and contributes its view options.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	result := &Result{}

	loadStart := time.Now()
	if pkgio.IsLayoutPath(opts.Input) {
		placed, err := r.LoadLayout(ctx, &opts)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		result.Placed = placed
		result.Events = eventsOf(placed)
		result.Stats.LoadTime = time.Since(loadStart)
		result.CacheInfo.LayoutHit = true
	} else {
		events, err := r.Load(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		result.Events = events
		result.Stats.LoadTime = time.Since(loadStart)

		layoutStart := time.Now()
		placed, hit, err := r.LayoutWithCacheInfo(ctx, events, opts)
		if err != nil {
			return nil, fmt.Errorf("layout: %w", err)
		}
		result.Placed = placed
		result.Stats.LayoutTime = time.Since(layoutStart)
		result.CacheInfo.LayoutHit = hit
	}
	result.Stats.EventCount = len(result.Placed)
	result.Stats.GroupCount = GroupCount(result.Placed)

	r.Logger.Info("computed layout",
		"events", result.Stats.EventCount,
		"groups", result.Stats.GroupCount,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result.Placed, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit
	if result.LayoutHash, err = LayoutHash(result.Placed); err != nil {
		return nil, err
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
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

func eventsOf(placed []layout.Placed) []layout.Event {
	events := make([]layout.Event, len(placed))
	for i, p := range placed {
		events[i] = p.Event
	}
	return events
}
