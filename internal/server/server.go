// Package server exposes the layout pipeline over HTTP and serves a watched
// events file as a day view that is re-read on a cron schedule.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"

	"github.com/matzehuels/dayview/pkg/layout"
	"github.com/matzehuels/dayview/pkg/pipeline"
)

// maxBodyBytes bounds request bodies for the API.
const maxBodyBytes = 1 << 20

const shutdownTimeout = 5 * time.Second

// Config configures a Server.
type Config struct {
	// Listen is the TCP address for Start.
	Listen string
	// Events is the watched file served at /day. Empty disables /day.
	Events string
	// Reload is a standard cron schedule for re-reading Events.
	Reload string
	// Location picks the calendar day for ICS input.
	Location *time.Location
	// View holds defaults for geometry, title and formats.
	View pipeline.Options
	// Metrics, if set, is served at /metrics.
	Metrics http.Handler
}

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
	cron   *cron.Cron
	now    func() time.Time

	mu      sync.RWMutex
	watched watchedDay
}

// watchedDay is the last successful load of the events file.
type watchedDay struct {
	placed   []layout.Placed
	title    string
	loadedAt time.Time
	err      error
}

// New creates a server. The runner supplies caching; the logger is used for
// request and reload logs.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if cfg.View.Logger == nil {
		cfg.View.Logger = logger
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	cfg.View.SetRenderDefaults()
	if err := cfg.View.ValidateForRender(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		runner: runner,
		logger: logger,
		now:    time.Now,
	}
	if cfg.Events != "" && cfg.Reload != "" {
		s.cron = cron.New(cron.WithLocation(cfg.Location))
		if _, err := s.cron.AddFunc(cfg.Reload, s.scheduledReload); err != nil {
			return nil, fmt.Errorf("reload schedule %q: %w", cfg.Reload, err)
		}
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Get("/axis", s.handleAxis)
	})
	r.Get("/day", s.handleDay)
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.cfg.Metrics)
	}
	return r
}

// Reload re-reads the watched events file. On failure the previous layout
// is kept and the error is reported by /health.
func (s *Server) Reload(ctx context.Context) error {
	if s.cfg.Events == "" {
		return nil
	}
	opts := s.cfg.View
	opts.Input = s.cfg.Events
	opts.Day = s.now().In(s.cfg.Location)

	events, err := s.runner.Load(ctx, opts)
	var placed []layout.Placed
	if err == nil {
		placed, err = s.runner.Layout(ctx, events, opts)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.watched.err = err
	if err != nil {
		return err
	}
	s.watched.placed = placed
	s.watched.title = opts.Title
	s.watched.loadedAt = s.now()
	s.logger.Info("reloaded events", "file", s.cfg.Events, "events", len(placed))
	return nil
}

func (s *Server) scheduledReload() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := s.Reload(ctx); err != nil {
		s.logger.Warn("reload failed", "file", s.cfg.Events, "error", err)
	}
}

func (s *Server) snapshot() watchedDay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watched
}

// Start loads the watched file, starts the reload schedule and serves until
// ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Reload(ctx); err != nil {
		s.logger.Warn("initial load failed", "file", s.cfg.Events, "error", err)
	}
	if s.cron != nil {
		s.cron.Start()
		defer s.cron.Stop()
	}

	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
