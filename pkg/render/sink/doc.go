// Package sink turns a laid-out day into bytes.
//
// # Overview
//
// A "sink" is a [Renderer] strategy: it receives a [View] (placed events
// plus view options) and produces a finished artifact. This package provides:
//
//   - HTML: a standalone page with .calendar-axis and .calendar-events containers
//   - SVG: rectangles per event, tick lines and labels
//   - JSON: the interpolated boxes and ticks for other front ends
//   - Text: a terminal grid drawn with lipgloss
//   - PNG: the HTML page captured in headless Chromium
//
// Pick one by name with [New]:
//
//	r, err := sink.New("svg", sink.WithTitle("Monday"))
//	out, err := r.Render(ctx, sink.View{Events: placed, Options: opts})
//
// # Templates
//
// The HTML and PNG sinks build their markup from [render.Element] values.
// [WithEventTemplate] and [WithAxisTemplate] replace the default templates
// from the day and axis packages.
//
// # PNG Output
//
// [PNG] requires a Chrome or Chromium binary. It is located through the
// usual chromedp lookup or set explicitly with [WithBrowser].
package sink
