// Package day projects laid-out events onto a day view.
//
// [Interpolate] turns the fractional placement computed by the layout engine
// into CSS-style strings ("25%", "10px") plus absolute pixel geometry; a
// [Template] then materializes one visual value per event. [Element] is the
// default template, producing a positioned div.calendar-event.
package day

import (
	"github.com/matzehuels/dayview/pkg/layout"
	"github.com/matzehuels/dayview/pkg/render"
)

// ClassName is the class of elements built by [Element].
const ClassName = "calendar-event"

// Box is an event interpolated into view coordinates.
type Box struct {
	layout.Event
	Top    string      `json:"top"`
	Height string      `json:"height"`
	Left   string      `json:"left"`
	Width  string      `json:"width"`
	Rect   render.Rect `json:"rect"`
}

// Template materializes a visual value from a Box.
type Template[T any] func(Box) T

// Interpolate projects a placed event onto the view described by opts.
func Interpolate(opts render.Options, p layout.Placed) Box {
	return Box{
		Event:  p.Event,
		Top:    render.Px(opts.Y(p.Start)),
		Height: render.Px(opts.Y(p.End - p.Start)),
		Left:   render.Percent(p.Left),
		Width:  render.Percent(p.Width),
		Rect: render.Rect{
			X: opts.X(p.Left),
			Y: opts.Y(p.Start),
			W: opts.X(p.Width),
			H: opts.Y(p.End - p.Start),
		},
	}
}

// Render interpolates every event and applies tmpl to it, preserving order.
// A nil tmpl is not allowed; use [Boxes] for the interpolated records.
func Render[T any](events []layout.Placed, opts render.Options, tmpl Template[T]) []T {
	out := make([]T, len(events))
	for i, p := range events {
		out[i] = tmpl(Interpolate(opts, p))
	}
	return out
}

// Boxes returns the interpolated records without a template.
func Boxes(events []layout.Placed, opts render.Options) []Box {
	return Render(events, opts, func(b Box) Box { return b })
}

// Elements renders events with the default [Element] template.
func Elements(events []layout.Placed, opts render.Options) []render.Element {
	return Render(events, opts, Element)
}

// Element is the default template: an absolutely positioned box.
func Element(b Box) render.Element {
	el := render.Element{
		Tag:   "div",
		Class: ClassName,
		Text:  b.Title,
		Style: []render.Declaration{
			{Property: "width", Value: b.Width},
			{Property: "height", Value: b.Height},
			{Property: "left", Value: b.Left},
			{Property: "top", Value: b.Top},
		},
	}
	if b.ID != "" {
		el.Attrs = append(el.Attrs, render.Attr{Name: "data-id", Value: b.ID})
	}
	return el
}
