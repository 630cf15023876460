package sink

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/dayview/pkg/errors"
	"github.com/matzehuels/dayview/pkg/layout"
	"github.com/matzehuels/dayview/pkg/render"
	"github.com/matzehuels/dayview/pkg/render/axis"
	"github.com/matzehuels/dayview/pkg/render/day"
)

// Output format names.
const (
	FormatHTML = "html"
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatText = "text"
	FormatPNG  = "png"
)

var formats = []string{FormatHTML, FormatSVG, FormatJSON, FormatText, FormatPNG}

// Formats returns the supported output formats.
func Formats() []string { return slices.Clone(formats) }

// IsFormat reports whether name is a supported output format.
func IsFormat(name string) bool { return slices.Contains(formats, name) }

// View is everything a sink needs to draw one day.
type View struct {
	Events  []layout.Placed
	Options render.Options
	// Title is an optional heading, e.g. the date being shown.
	Title string
}

// Boxes interpolates the view's events.
func (v View) Boxes() []day.Box { return day.Boxes(v.Events, v.Options) }

// Ticks returns the view's axis ticks.
func (v View) Ticks() []axis.Tick { return axis.Ticks(v.Options) }

// Renderer produces an artifact from a View.
type Renderer interface {
	Render(ctx context.Context, v View) ([]byte, error)
}

// Option configures a sink created by [New].
type Option func(*config)

type config struct {
	title         string
	eventTemplate day.Template[render.Element]
	axisTemplate  axis.Template[render.Element]
	columns       int
	browser       string
	timeout       time.Duration
	indent        bool
}

func newConfig(opts ...Option) config {
	c := config{
		eventTemplate: day.Element,
		axisTemplate:  axis.Element,
		columns:       defaultColumns,
		timeout:       defaultPNGTimeout,
		indent:        true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithTitle sets a default heading used when the View has none.
func WithTitle(title string) Option { return func(c *config) { c.title = title } }

// WithEventTemplate replaces the markup template for events.
func WithEventTemplate(t day.Template[render.Element]) Option {
	return func(c *config) {
		if t != nil {
			c.eventTemplate = t
		}
	}
}

// WithAxisTemplate replaces the markup template for axis ticks.
func WithAxisTemplate(t axis.Template[render.Element]) Option {
	return func(c *config) {
		if t != nil {
			c.axisTemplate = t
		}
	}
}

// WithColumns sets the width of the text grid in characters, up to
// [MaxColumns].
func WithColumns(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.columns = min(n, MaxColumns)
		}
	}
}

// WithBrowser sets the Chrome/Chromium executable used by the PNG sink.
func WithBrowser(path string) Option { return func(c *config) { c.browser = path } }

// WithTimeout bounds a PNG capture.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCompactJSON disables indentation of JSON output.
func WithCompactJSON() Option { return func(c *config) { c.indent = false } }

// New returns the renderer for format.
func New(format string, opts ...Option) (Renderer, error) {
	c := newConfig(opts...)
	switch strings.ToLower(format) {
	case FormatHTML:
		return &HTML{cfg: c}, nil
	case FormatSVG:
		return &SVG{cfg: c}, nil
	case FormatJSON:
		return &JSON{cfg: c}, nil
	case FormatText:
		return &Text{cfg: c}, nil
	case FormatPNG:
		return &PNG{cfg: c, html: &HTML{cfg: c}}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of %s)", format, strings.Join(formats, ", "))
	}
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	switch format {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatSVG:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatPNG:
		return "image/png"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension for format, without the dot.
func Extension(format string) string {
	if format == FormatText {
		return "txt"
	}
	return format
}

func (c config) heading(v View) string {
	if v.Title != "" {
		return v.Title
	}
	return c.title
}

func prepare(v View) (View, error) {
	v.Options = v.Options.WithDefaults()
	if err := v.Options.Validate(); err != nil {
		return v, err
	}
	return v, nil
}
