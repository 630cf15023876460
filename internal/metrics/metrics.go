// Package metrics exports pipeline, cache and HTTP activity as Prometheus
// metrics by implementing the observability hooks.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/dayview/pkg/observability"
)

const namespace = "dayview"

// Metrics holds the collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	events        prometheus.Gauge
	groups        prometheus.Gauge
	cacheOps      *prometheus.CounterVec
	cacheBytes    prometheus.Counter
	requests      *prometheus.CounterVec
	reqDuration   *prometheus.HistogramVec
	reqErrors     *prometheus.CounterVec
}

// New registers all collectors on a fresh registry. Process and Go runtime
// collectors are included when withRuntime is set.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Failed pipeline stages.",
		}, []string{"stage"}),
		events: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "events",
			Help:      "Events in the most recent layout.",
		}),
		groups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collision_groups",
			Help:      "Collision groups in the most recent layout.",
		}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes by kind and result.",
		}, []string{"kind", "result"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP responses by route and status.",
		}, []string{"method", "route", "status"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		reqErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "HTTP handler errors by route.",
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		m.stageDuration, m.stageErrors, m.events, m.groups,
		m.cacheOps, m.cacheBytes,
		m.requests, m.reqDuration, m.reqErrors,
	)
	if withRuntime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Install makes m the process-wide observability hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observeStage(stage string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(stage).Inc()
	}
}

// OnLoadStart implements observability.PipelineHooks.
func (m *Metrics) OnLoadStart(context.Context, string) {}

// OnLoadComplete implements observability.PipelineHooks.
func (m *Metrics) OnLoadComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	m.observeStage("load", d, err)
}

// OnLayoutStart implements observability.PipelineHooks.
func (m *Metrics) OnLayoutStart(context.Context, int) {}

// OnLayoutComplete implements observability.PipelineHooks.
func (m *Metrics) OnLayoutComplete(_ context.Context, events, groups int, d time.Duration, err error) {
	m.observeStage("layout", d, err)
	if err == nil {
		m.events.Set(float64(events))
		m.groups.Set(float64(groups))
	}
}

// OnRenderStart implements observability.PipelineHooks.
func (m *Metrics) OnRenderStart(context.Context, []string) {}

// OnRenderComplete implements observability.PipelineHooks.
func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.observeStage("render", d, err)
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, key string) {
	m.cacheOps.WithLabelValues(keyKind(key), "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, key string) {
	m.cacheOps.WithLabelValues(keyKind(key), "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, key string, size int) {
	m.cacheOps.WithLabelValues(keyKind(key), "set").Inc()
	m.cacheBytes.Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (m *Metrics) OnRequest(context.Context, string, string) {}

// OnResponse implements observability.HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.reqDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// OnError implements observability.HTTPHooks.
func (m *Metrics) OnError(_ context.Context, method, route string, _ error) {
	m.reqErrors.WithLabelValues(method, route).Inc()
}

// keyKind reduces a cache key to its kind so labels stay bounded.
func keyKind(key string) string {
	for _, kind := range []string{"layout", "artifact"} {
		if strings.HasPrefix(key, kind+":") || strings.Contains(key, ":"+kind+":") {
			return kind
		}
	}
	return "other"
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
