// Package axis produces the time ticks drawn beside the day view.
//
// Ticks are spaced every TickInterval minutes (30 by default) from 0 to
// EndOfDay inclusive. Labels use a 12-hour clock shifted by a fixed
// nine-hour display offset, so minute 0 reads "9:00 AM". Only full hours
// carry an AM/PM suffix; half hours keep the separating space, e.g. "9:30 ".
package axis

import (
	"fmt"

	"github.com/matzehuels/dayview/pkg/render"
)

// ClassName is the class of elements built by [Element].
const ClassName = "calendar-axis-time"

// Offset is the display offset added to every tick, in minutes.
const Offset = 9 * 60

// Tick is a labelled position on the time axis.
type Tick struct {
	Minutes int     `json:"minutes"`
	Time    string  `json:"time"`
	Top     string  `json:"top"`
	Y       float64 `json:"y"`
}

// Template materializes a visual value from a Tick.
type Template[T any] func(Tick) T

// Minutes returns the tick positions for opts.
func Minutes(opts render.Options) []int {
	step := opts.TickInterval
	if step <= 0 {
		step = render.DefaultTickInterval
	}
	var out []int
	for m := 0; float64(m) <= opts.EndOfDay; m += step {
		out = append(out, m)
	}
	return out
}

// Ticks returns the interpolated ticks for opts.
func Ticks(opts render.Options) []Tick {
	return Render(opts, func(t Tick) Tick { return t })
}

// Render interpolates every tick and applies tmpl to it.
func Render[T any](opts render.Options, tmpl Template[T]) []T {
	minutes := Minutes(opts)
	out := make([]T, len(minutes))
	for i, m := range minutes {
		y := opts.Y(float64(m))
		out[i] = tmpl(Tick{
			Minutes: m,
			Time:    FormatTime(m),
			Top:     render.Px(y),
			Y:       y,
		})
	}
	return out
}

// FormatTime formats a minute offset as a 12-hour label.
func FormatTime(minutes int) string {
	t := minutes + Offset
	h, m := t/60, t%60

	suffix := ""
	if m == 0 {
		suffix = "PM"
		if h < 12 {
			suffix = "AM"
		}
	}
	h = (h+11)%12 + 1
	return fmt.Sprintf("%d:%02d %s", h, m, suffix)
}

// Elements renders the axis with the default [Element] template.
func Elements(opts render.Options) []render.Element {
	return Render(opts, Element)
}

// Element is the default template: a label positioned at the tick.
func Element(t Tick) render.Element {
	return render.Element{
		Tag:   "div",
		Class: ClassName,
		Text:  t.Time,
		Style: []render.Declaration{{Property: "top", Value: t.Top}},
	}
}
