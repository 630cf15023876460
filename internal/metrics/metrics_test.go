package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/dayview/pkg/observability"
)

func TestPipelineHooks(t *testing.T) {
	m := New(false)
	ctx := context.Background()

	m.OnLayoutComplete(ctx, 7, 3, 2*time.Millisecond, nil)
	m.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, errors.New("boom"))
	m.OnLoadComplete(ctx, "day.json", 7, time.Millisecond, nil)

	if got := testutil.ToFloat64(m.events); got != 7 {
		t.Errorf("events = %v, want 7", got)
	}
	if got := testutil.ToFloat64(m.groups); got != 3 {
		t.Errorf("groups = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.stageErrors.WithLabelValues("render")); got != 1 {
		t.Errorf("render errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.stageErrors.WithLabelValues("layout")); got != 0 {
		t.Errorf("layout errors = %v, want 0", got)
	}
	if n := testutil.CollectAndCount(m.stageDuration); n != 3 {
		t.Errorf("stage series = %d, want 3", n)
	}
}

func TestCacheHooks(t *testing.T) {
	m := New(false)
	ctx := context.Background()

	m.OnCacheHit(ctx, "layout:abc")
	m.OnCacheMiss(ctx, "tenant:artifact:def")
	m.OnCacheSet(ctx, "artifact:def", 128)
	m.OnCacheSet(ctx, "artifact:xyz", 64)

	tests := []struct {
		kind, result string
		want         float64
	}{
		{"layout", "hit", 1},
		{"artifact", "miss", 1},
		{"artifact", "set", 2},
		{"layout", "miss", 0},
	}
	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.result, func(t *testing.T) {
			if got := testutil.ToFloat64(m.cacheOps.WithLabelValues(tt.kind, tt.result)); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
	if got := testutil.ToFloat64(m.cacheBytes); got != 192 {
		t.Errorf("bytes = %v, want 192", got)
	}
}

func TestKeyKind(t *testing.T) {
	tests := map[string]string{
		"layout:1":            "layout",
		"artifact:2":          "artifact",
		"office:layout:3":     "layout",
		"something-else":      "other",
		"layoutish:artifactx": "other",
	}
	for key, want := range tests {
		if got := keyKind(key); got != want {
			t.Errorf("keyKind(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestHandler(t *testing.T) {
	m := New(true)
	m.OnResponse(context.Background(), http.MethodGet, "/health", 200, time.Millisecond)
	m.OnError(context.Background(), http.MethodPost, "/api/layout", errors.New("bad"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`dayview_http_requests_total{method="GET",route="/health",status="200"} 1`,
		`dayview_http_errors_total{method="POST",route="/api/layout"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestInstall(t *testing.T) {
	t.Cleanup(observability.Reset)
	m := New(false)
	m.Install()

	observability.Pipeline().OnLayoutComplete(context.Background(), 4, 2, time.Millisecond, nil)
	observability.Cache().OnCacheHit(context.Background(), "layout:k")

	if got := testutil.ToFloat64(m.events); got != 4 {
		t.Errorf("events via hooks = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.cacheOps.WithLabelValues("layout", "hit")); got != 1 {
		t.Errorf("cache hit via hooks = %v, want 1", got)
	}
}
