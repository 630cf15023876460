package sink

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/dayview/pkg/render/day"
)

const (
	svgPadding     = 12
	svgTitleHeight = 28
	svgFontSize    = 11.0
	svgCharWidth   = 0.55
)

// SVG draws the day as scalable vector graphics.
type SVG struct {
	cfg config
}

// NewSVG returns an SVG sink.
func NewSVG(opts ...Option) *SVG { return &SVG{cfg: newConfig(opts...)} }

// Render implements [Renderer].
func (s *SVG) Render(_ context.Context, v View) ([]byte, error) {
	v, err := prepare(v)
	if err != nil {
		return nil, err
	}

	title := s.cfg.heading(v)
	top := svgPadding
	if title != "" {
		top += svgTitleHeight
	}
	left := axisGutter
	width := left + round(v.Options.Width) + svgPadding
	height := top + round(v.Options.Height) + svgPadding

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#fff")

	if title != "" {
		canvas.Text(svgPadding, svgPadding+16, title, "font-family:sans-serif;font-size:16px;font-weight:bold;fill:#333")
	}

	canvas.Rect(left, top, round(v.Options.Width), round(v.Options.Height), "fill:#f4f4f4;stroke:#ccc")

	canvas.Gid("axis")
	for _, t := range v.Ticks() {
		y := top + round(t.Y)
		canvas.Line(left, y, left+round(v.Options.Width), y, "stroke:#ddd;stroke-width:1")
		canvas.Text(left-8, y+4, t.Time, "text-anchor:end;font-family:sans-serif;font-size:11px;fill:#666")
	}
	canvas.Gend()

	canvas.Gid("events")
	for _, b := range v.Boxes() {
		drawBox(canvas, b, left, top)
	}
	canvas.Gend()

	canvas.End()
	return buf.Bytes(), nil
}

func drawBox(canvas *svg.SVG, b day.Box, left, top int) {
	x, y := left+round(b.Rect.X), top+round(b.Rect.Y)
	w, h := max(1, round(b.Rect.W)), max(1, round(b.Rect.H))

	attrs := []string{`class="calendar-event"`, "fill:#fff;stroke:#d6d6d6"}
	if b.ID != "" {
		attrs = append(attrs, fmt.Sprintf(`data-id="%s"`, html.EscapeString(b.ID)))
	}
	canvas.Rect(x, y, w, h, attrs...)
	canvas.Rect(x, y, min(4, w), h, "fill:#4b6dad")

	if label := truncateLabel(b.Title, b.Rect.W-10); label != "" && h >= 14 {
		canvas.Text(x+8, y+13, label, "font-family:sans-serif;font-size:11px;fill:#333")
	}
}

// truncateLabel shortens s to fit roughly within avail pixels.
func truncateLabel(s string, avail float64) string {
	r := []rune(s)
	maxChars := int(avail / (svgFontSize * svgCharWidth))
	if maxChars < 3 {
		return ""
	}
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-2]) + ".."
}

func round(v float64) int { return int(math.Round(v)) }
