// Package render projects laid-out events onto a concrete view.
//
// # Overview
//
// The layout engine in [layout] works in abstract units: minutes for the
// vertical axis and fractions of the view width for the horizontal one.
// This package holds what every projection shares:
//
//   - [Options]: the view geometry (day length, pixel height and width, tick interval)
//   - [Options.Y], [Px] and [Percent]: minute and fraction to CSS-like strings
//   - [Element]: a small visual node model produced by templates
//
// The projections themselves live in subpackages:
//
//   - [day]: events to positioned boxes
//   - [axis]: time ticks with 12-hour labels
//   - [sink]: boxes and ticks to bytes (HTML, SVG, JSON, text, PNG)
//
// # Projection
//
// A minute offset m maps to Height*m/EndOfDay pixels; a fraction f maps to
// f*100 percent. Numbers are formatted with the shortest representation that
// round-trips, so 10 renders as "10px" and 1/3 as "33.33333333333333%".
//
//	opts := render.DefaultOptions()
//	boxes := day.Boxes(layout.Layout(events), opts)
//	ticks := axis.Ticks(opts)
//
// [layout]: github.com/matzehuels/dayview/pkg/layout
// [day]: github.com/matzehuels/dayview/pkg/render/day
// [axis]: github.com/matzehuels/dayview/pkg/render/axis
// [sink]: github.com/matzehuels/dayview/pkg/render/sink
package render
