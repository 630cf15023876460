// Package calendar wires the layout engine and a renderer into a day view.
//
// A [Calendar] receives its layout function and its renderer explicitly, so
// callers can swap either one:
//
//	r, _ := sink.New("html")
//	cal := calendar.New(r, calendar.WithOptions(render.DefaultOptions()))
//	d, err := cal.LayoutDay(ctx, events)
//	os.WriteFile("day.html", d.Output, 0o644)
//
// LayoutDay never reorders or modifies the caller's slice; it sorts a copy.
package calendar

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dayview/pkg/errors"
	"github.com/matzehuels/dayview/pkg/layout"
	"github.com/matzehuels/dayview/pkg/render"
	"github.com/matzehuels/dayview/pkg/render/axis"
	"github.com/matzehuels/dayview/pkg/render/day"
	"github.com/matzehuels/dayview/pkg/render/sink"
)

// LayoutFunc places start-sorted events. [layout.Layout] is the default.
type LayoutFunc func([]layout.Event) []layout.Placed

// Calendar lays out and renders single days.
type Calendar struct {
	layout   LayoutFunc
	renderer sink.Renderer
	opts     render.Options
	title    string
	logger   *log.Logger
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithLayout replaces the layout function.
func WithLayout(f LayoutFunc) Option {
	return func(c *Calendar) {
		if f != nil {
			c.layout = f
		}
	}
}

// WithOptions sets the view geometry. Zero fields fall back to defaults.
func WithOptions(o render.Options) Option { return func(c *Calendar) { c.opts = o } }

// WithTitle sets the heading passed to the renderer.
func WithTitle(title string) Option { return func(c *Calendar) { c.title = title } }

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Calendar) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Calendar that renders with r. A nil renderer skips the
// render step; the returned Day then has no Output.
func New(r sink.Renderer, opts ...Option) *Calendar {
	c := &Calendar{
		layout:   layout.Layout,
		renderer: r,
		opts:     render.DefaultOptions(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.opts = c.opts.WithDefaults()
	return c
}

// Options returns the effective view geometry.
func (c *Calendar) Options() render.Options { return c.opts }

// Day is the result of laying out and rendering one day.
type Day struct {
	Events []layout.Placed `json:"events"`
	Boxes  []day.Box       `json:"boxes"`
	Ticks  []axis.Tick     `json:"ticks"`
	Output []byte          `json:"-"`
}

// LayoutDay sorts a copy of events by start, validates it, lays it out and
// renders the result.
func (c *Calendar) LayoutDay(ctx context.Context, events []layout.Event) (Day, error) {
	if err := ctx.Err(); err != nil {
		return Day{}, err
	}
	if err := c.opts.Validate(); err != nil {
		return Day{}, err
	}
	if err := layout.Validate(events); err != nil {
		return Day{}, errors.Wrap(errors.ErrCodeInvalidEvent, err, "invalid event")
	}

	start := time.Now()
	sorted := layout.SortByStart(events)
	placed := c.layout(sorted)
	c.logger.Debug("laid out day", "events", len(placed), "duration", time.Since(start))

	d := Day{
		Events: placed,
		Boxes:  day.Boxes(placed, c.opts),
		Ticks:  axis.Ticks(c.opts),
	}
	if c.renderer == nil {
		return d, nil
	}

	out, err := c.renderer.Render(ctx, sink.View{Events: placed, Options: c.opts, Title: c.title})
	if err != nil {
		return Day{}, err
	}
	d.Output = out
	return d, nil
}
