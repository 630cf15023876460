package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/dayview/pkg/cache"
	"github.com/matzehuels/dayview/pkg/calendar"
	"github.com/matzehuels/dayview/pkg/layout"
	"github.com/matzehuels/dayview/pkg/observability"
)

// LayoutWithCacheInfo places events, consulting the cache first unless
// opts.Refresh is set, and reports whether the result came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, events []layout.Event, opts Options) ([]layout.Placed, bool, error) {
	r.applyLogger(&opts)
	opts.SetLayoutDefaults()

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(events))
	start := time.Now()

	placed, hit, err := r.layout(ctx, events, opts)
	hooks.OnLayoutComplete(ctx, len(events), GroupCount(placed), time.Since(start), err)
	return placed, hit, err
}

// Layout is LayoutWithCacheInfo without the cache hit info.
func (r *Runner) Layout(ctx context.Context, events []layout.Event, opts Options) ([]layout.Placed, error) {
	placed, _, err := r.LayoutWithCacheInfo(ctx, events, opts)
	return placed, err
}

func (r *Runner) layout(ctx context.Context, events []layout.Event, opts Options) ([]layout.Placed, bool, error) {
	if err := opts.RenderOptions().Validate(); err != nil {
		return nil, false, err
	}
	eventsHash, err := cache.HashJSON(events)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.LayoutKey(eventsHash)
	cacheHooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached []layout.Placed
			if err := json.Unmarshal(data, &cached); err == nil {
				cacheHooks.OnCacheHit(ctx, key)
				opts.Logger.Debug("layout cache hit", "key", key)
				return cached, true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "error", err)
		}
		cacheHooks.OnCacheMiss(ctx, key)
	}

	cal := calendar.New(nil, calendar.WithOptions(opts.RenderOptions()), calendar.WithLogger(opts.Logger))
	d, err := cal.LayoutDay(ctx, events)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(d.Events); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, key, len(data))
		}
	}
	return d.Events, false, nil
}

// GroupCount counts collision groups among placed events.
func GroupCount(placed []layout.Placed) int {
	return len(layout.Group(layout.SortByStart(eventsOf(placed))))
}
