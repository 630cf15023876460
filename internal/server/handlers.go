package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/dayview/pkg/buildinfo"
	"github.com/matzehuels/dayview/pkg/errors"
	pkgio "github.com/matzehuels/dayview/pkg/io"
	"github.com/matzehuels/dayview/pkg/layout"
	"github.com/matzehuels/dayview/pkg/pipeline"
	"github.com/matzehuels/dayview/pkg/render/axis"
	"github.com/matzehuels/dayview/pkg/render/sink"
)

type healthResponse struct {
	Status   string    `json:"status"`
	Version  string    `json:"version"`
	Events   int       `json:"events"`
	LoadedAt time.Time `json:"loaded_at,omitzero"`
	Error    string    `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	day := s.snapshot()
	resp := healthResponse{
		Status:   "ok",
		Version:  buildinfo.Get().Version,
		Events:   len(day.placed),
		LoadedAt: day.loadedAt,
	}
	if day.err != nil {
		resp.Status = "degraded"
		resp.Error = errors.UserMessage(day.err)
	}
	writeJSON(w, http.StatusOK, resp)
}

type layoutResponse struct {
	Events []layout.Placed `json:"events"`
}

// handleLayout places the events in the request body.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.viewOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	placed, err := s.layoutBody(w, r, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Events: placed})
}

// handleRender places and renders the events in the request body in the
// format given by the format query parameter.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.viewOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	placed, err := s.layoutBody(w, r, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeArtifact(w, r, placed, opts)
}

// handleAxis returns the time ticks for the requested geometry.
func (s *Server) handleAxis(w http.ResponseWriter, r *http.Request) {
	opts, err := s.viewOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ro := opts.RenderOptions()
	if err := ro.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, axis.Ticks(ro))
}

// handleDay renders the watched events file.
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Events == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no events file configured"))
		return
	}
	day := s.snapshot()
	if day.loadedAt.IsZero() {
		err := day.err
		if err == nil {
			err = errors.New(errors.ErrCodeNotFound, "events not loaded yet")
		}
		s.writeError(w, r, err)
		return
	}
	opts, err := s.viewOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Title == "" {
		opts.Title = day.title
	}
	s.writeArtifact(w, r, day.placed, opts)
}

func (s *Server) layoutBody(w http.ResponseWriter, r *http.Request, opts pipeline.Options) ([]layout.Placed, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	// IDs are left as sent so identical bodies share a layout cache entry.
	events, err := pkgio.ReadEvents(body, pkgio.FormatJSON, pkgio.WithoutGeneratedIDs())
	if err != nil {
		return nil, err
	}
	return s.runner.Layout(r.Context(), events, opts)
}

func (s *Server) writeArtifact(w http.ResponseWriter, r *http.Request, placed []layout.Placed, opts pipeline.Options) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = opts.Formats[0]
	}
	opts.Formats = []string{format}

	artifacts, err := s.runner.Render(r.Context(), placed, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", sink.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// viewOptions overlays query parameters on the configured view defaults.
func (s *Server) viewOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.View
	q := r.URL.Query()

	floats := map[string]*float64{
		"end_of_day": &opts.EndOfDay,
		"height":     &opts.Height,
		"width":      &opts.Width,
	}
	for name, dst := range floats {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidOptions, "%s: not a number: %q", name, v)
			}
			*dst = f
		}
	}
	ints := map[string]*int{
		"tick_interval": &opts.TickInterval,
		"columns":       &opts.Columns,
	}
	for name, dst := range ints {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidOptions, "%s: not an integer: %q", name, v)
			}
			*dst = n
		}
	}
	if v := q.Get("title"); v != "" {
		opts.Title = v
	}
	opts.Refresh = q.Get("refresh") == "true"
	return opts, nil
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	recordError(r, err)
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
