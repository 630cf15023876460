// Package pipeline runs the load → layout → render pipeline for a day view.
//
// The CLI and the HTTP server share this package so that both apply the
// same defaults, validation and caching.
//
// # Stages
//
//  1. Load: read events from a JSON, YAML, TOML or ICS file (or stdin)
//  2. Layout: sort, validate and place the events in columns
//  3. Render: project the placement and produce one artifact per format
//
// Layouts are cached by the hash of the event list. Artifacts are cached by
// the hash of the placed events together with the view options and format.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "today.yaml",
//	    Formats: []string{"html", "svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Stages can also be run on their own:
//
//	events, err := runner.Load(ctx, opts)
//	placed, err := runner.Layout(ctx, events, opts)
//	artifacts, err := runner.Render(ctx, placed, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dayview/pkg/cache"
	"github.com/matzehuels/dayview/pkg/errors"
	"github.com/matzehuels/dayview/pkg/layout"
	"github.com/matzehuels/dayview/pkg/render"
	"github.com/matzehuels/dayview/pkg/render/sink"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = sink.FormatHTML

// StdinInput reads events from the options' Stdin reader.
const StdinInput = "-"

// Options configures a pipeline run. Zero values take defaults.
type Options struct {
	// Load options
	Input       string    `json:"input,omitempty"`
	InputFormat string    `json:"input_format,omitempty"` // overrides the extension
	Day         time.Time `json:"day,omitzero"`          // calendar day for ICS input
	Refresh     bool      `json:"refresh,omitempty"`

	// View options
	EndOfDay     float64 `json:"end_of_day,omitempty"`
	Height       float64 `json:"height,omitempty"`
	Width        float64 `json:"width,omitempty"`
	TickInterval int     `json:"tick_interval,omitempty"`

	// Render options
	Formats []string      `json:"formats,omitempty"`
	Title   string        `json:"title,omitempty"`
	Columns int           `json:"columns,omitempty"`
	Browser string        `json:"browser,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty"`

	// Runtime options (not serialized)
	Stdin  io.Reader   `json:"-"`
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Events are the loaded events in input order.
	Events []layout.Event
	// Placed is the computed layout.
	Placed []layout.Placed
	// LayoutHash is the content hash of Placed.
	LayoutHash string
	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EventCount int
	GroupCount int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	LayoutHit bool // layout came from cache
	RenderHit bool // every artifact came from cache
}

// ValidateFormat checks that a format is known to the sink package.
func ValidateFormat(format string) error {
	if err := errors.ValidateFormatName(format); err != nil {
		return err
	}
	if !sink.IsFormat(format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(sink.Formats(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetLayoutDefaults fills the view geometry.
func (o *Options) SetLayoutDefaults() {
	def := render.DefaultOptions()
	if o.EndOfDay == 0 {
		o.EndOfDay = def.EndOfDay
	}
	if o.Height == 0 {
		o.Height = def.Height
	}
	if o.Width == 0 {
		o.Width = def.Width
	}
	if o.TickInterval == 0 {
		o.TickInterval = def.TickInterval
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults fills formats on top of the layout defaults.
func (o *Options) SetRenderDefaults() {
	o.SetLayoutDefaults()
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
}

// ValidateForRender applies defaults and validates formats and geometry.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Columns < 0 || o.Columns > sink.MaxColumns {
		return errors.New(errors.ErrCodeInvalidOptions, "columns must be between 0 and %d", sink.MaxColumns)
	}
	return o.RenderOptions().Validate()
}

// RenderOptions returns the projection options.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		EndOfDay:     o.EndOfDay,
		Height:       o.Height,
		Width:        o.Width,
		TickInterval: o.TickInterval,
	}
}

// SinkOptions returns the renderer options shared by all formats.
func (o *Options) SinkOptions() []sink.Option {
	opts := []sink.Option{sink.WithTitle(o.Title)}
	if o.Columns > 0 {
		opts = append(opts, sink.WithColumns(o.Columns))
	}
	if o.Browser != "" {
		opts = append(opts, sink.WithBrowser(o.Browser))
	}
	if o.Timeout > 0 {
		opts = append(opts, sink.WithTimeout(o.Timeout))
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:       format,
		EndOfDay:     o.EndOfDay,
		Height:       o.Height,
		Width:        o.Width,
		TickInterval: o.TickInterval,
		Title:        o.Title,
		Columns:      o.Columns,
	}
}

// ApplyLayoutDocument copies view options stored with a saved layout into
// fields the caller left unset.
func (o *Options) ApplyLayoutDocument(opts render.Options, title string) {
	if o.EndOfDay == 0 {
		o.EndOfDay = opts.EndOfDay
	}
	if o.Height == 0 {
		o.Height = opts.Height
	}
	if o.Width == 0 {
		o.Width = opts.Width
	}
	if o.TickInterval == 0 {
		o.TickInterval = opts.TickInterval
	}
	if o.Title == "" {
		o.Title = title
	}
}
