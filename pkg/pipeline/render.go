package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/dayview/pkg/cache"
	"github.com/matzehuels/dayview/pkg/layout"
	"github.com/matzehuels/dayview/pkg/observability"
	"github.com/matzehuels/dayview/pkg/render/sink"
)

// RenderWithCacheInfo produces one artifact per requested format. It
// reports a cache hit only when every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, placed []layout.Placed, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, hit, err := r.render(ctx, placed, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, hit, err
}

// Render is RenderWithCacheInfo without the cache hit info.
func (r *Runner) Render(ctx context.Context, placed []layout.Placed, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, placed, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, placed []layout.Placed, opts Options) (map[string][]byte, bool, error) {
	layoutHash, err := LayoutHash(placed)
	if err != nil {
		return nil, false, err
	}
	cacheHooks := observability.Cache()
	view := sink.View{Events: placed, Options: opts.RenderOptions(), Title: opts.Title}

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				cacheHooks.OnCacheHit(ctx, key)
				artifacts[format] = data
				continue
			}
			cacheHooks.OnCacheMiss(ctx, key)
		}
		allCached = false

		renderer, err := sink.New(format, opts.SinkOptions()...)
		if err != nil {
			return nil, false, err
		}
		data, err := renderer.Render(ctx, view)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		opts.Logger.Debug("rendered", "format", format, "bytes", len(data))

		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, key, len(data))
		}
	}
	return artifacts, allCached && len(opts.Formats) > 0, nil
}

// LayoutHash is the content hash of a placement.
func LayoutHash(placed []layout.Placed) (string, error) {
	data, err := json.Marshal(placed)
	if err != nil {
		return "", fmt.Errorf("serialize layout: %w", err)
	}
	return cache.Hash(data), nil
}
