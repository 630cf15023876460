package render

import (
	"math"
	"strconv"

	"github.com/matzehuels/dayview/pkg/errors"
)

// View defaults. EndOfDay and Height give one pixel per minute over a
// twelve-hour day.
const (
	DefaultEndOfDay     = 12 * 60
	DefaultHeight       = 720
	DefaultWidth        = 600
	DefaultTickInterval = 30
)

// Upper bounds accepted by [Options.Validate]. A view covers at most one day.
const (
	MaxEndOfDay  = 24 * 60
	MaxDimension = 16384
)

// Options describes the view the layout is projected onto.
type Options struct {
	// EndOfDay is the length of the rendered day in minutes.
	EndOfDay float64 `json:"end_of_day" yaml:"end_of_day" toml:"end_of_day"`
	// Height is the pixel height of the view.
	Height float64 `json:"height" yaml:"height" toml:"height"`
	// Width is the pixel width of the event column. Only sinks that draw
	// absolute geometry (SVG, text, PNG) use it.
	Width float64 `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	// TickInterval is the spacing of axis ticks in minutes.
	TickInterval int `json:"tick_interval,omitempty" yaml:"tick_interval,omitempty" toml:"tick_interval,omitempty"`
}

// DefaultOptions returns the standard view geometry.
func DefaultOptions() Options {
	return Options{
		EndOfDay:     DefaultEndOfDay,
		Height:       DefaultHeight,
		Width:        DefaultWidth,
		TickInterval: DefaultTickInterval,
	}
}

// WithDefaults returns a copy of o with zero fields set to their defaults.
func (o Options) WithDefaults() Options {
	if o.EndOfDay == 0 {
		o.EndOfDay = DefaultEndOfDay
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.TickInterval == 0 {
		o.TickInterval = DefaultTickInterval
	}
	return o
}

// Validate rejects geometry that cannot be projected.
func (o Options) Validate() error {
	switch {
	case !positive(o.EndOfDay):
		return errors.New(errors.ErrCodeInvalidOptions, "end of day must be a positive number of minutes")
	case o.EndOfDay > MaxEndOfDay:
		return errors.New(errors.ErrCodeInvalidOptions, "end of day must be at most %d minutes", MaxEndOfDay)
	case !positive(o.Height):
		return errors.New(errors.ErrCodeInvalidOptions, "height must be a positive number of pixels")
	case o.Height > MaxDimension:
		return errors.New(errors.ErrCodeInvalidOptions, "height must be at most %d pixels", MaxDimension)
	case o.Width < 0 || math.IsNaN(o.Width) || math.IsInf(o.Width, 0):
		return errors.New(errors.ErrCodeInvalidOptions, "width must not be negative")
	case o.Width > MaxDimension:
		return errors.New(errors.ErrCodeInvalidOptions, "width must be at most %d pixels", MaxDimension)
	case o.TickInterval < 0:
		return errors.New(errors.ErrCodeInvalidOptions, "tick interval must not be negative")
	}
	return nil
}

// Y converts a minute offset to a pixel offset.
func (o Options) Y(minutes float64) float64 {
	return o.Height * minutes / o.EndOfDay
}

// X converts a width fraction to a pixel offset.
func (o Options) X(fraction float64) float64 {
	return o.Width * fraction
}

// Px formats a pixel value, e.g. "10px".
func Px(v float64) string {
	return FormatNumber(v) + "px"
}

// Percent formats a fraction as a percentage, e.g. 0.25 becomes "25%".
func Percent(fraction float64) string {
	return FormatNumber(fraction*100) + "%"
}

// FormatNumber formats v with the fewest digits that round-trip.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
