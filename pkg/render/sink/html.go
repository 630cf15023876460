package sink

import (
	"bytes"
	"context"
	"html/template"

	"github.com/matzehuels/dayview/pkg/errors"
	"github.com/matzehuels/dayview/pkg/render"
	"github.com/matzehuels/dayview/pkg/render/axis"
	"github.com/matzehuels/dayview/pkg/render/day"
)

const axisGutter = 70

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"px":      render.Px,
	"element": func(e render.Element) template.HTML { return template.HTML(e.HTML()) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{if .Title}}{{.Title}}{{else}}Day view{{end}}</title>
<style>
*{box-sizing:border-box}
body{margin:0;padding:16px;font-family:sans-serif;font-size:12px;background:#fff;color:#333}
h1{font-size:16px;margin:0 0 12px}
.calendar{display:flex}
.calendar-axis{position:relative;width:{{px .Gutter}};height:{{px .Height}}}
.calendar-axis-time{position:absolute;right:8px;transform:translateY(-50%);color:#666;white-space:nowrap}
.calendar-events{position:relative;width:{{px .Width}};height:{{px .Height}};background:#f4f4f4;border-left:1px solid #ccc}
.calendar-event{position:absolute;padding:2px 6px;overflow:hidden;background:#fff;border:1px solid #d6d6d6;border-left:4px solid #4b6dad}
</style>
</head>
<body>
{{if .Title}}<h1>{{.Title}}</h1>
{{end}}<div class="calendar" data-ready="true">
<div class="calendar-axis">
{{range .Axis}}{{element .}}
{{end}}</div>
<div class="calendar-events">
{{range .Events}}{{element .}}
{{end}}</div>
</div>
</body>
</html>
`))

type pageData struct {
	Title  string
	Width  float64
	Height float64
	Gutter float64
	Events []render.Element
	Axis   []render.Element
}

// HTML renders a standalone page.
type HTML struct {
	cfg config
}

// NewHTML returns an HTML sink.
func NewHTML(opts ...Option) *HTML { return &HTML{cfg: newConfig(opts...)} }

// Render implements [Renderer].
func (h *HTML) Render(_ context.Context, v View) ([]byte, error) {
	v, err := prepare(v)
	if err != nil {
		return nil, err
	}

	data := pageData{
		Title:  h.cfg.heading(v),
		Width:  v.Options.Width,
		Height: v.Options.Height,
		Gutter: axisGutter,
		Events: day.Render(v.Events, v.Options, h.cfg.eventTemplate),
		Axis:   axis.Render(v.Options, h.cfg.axisTemplate),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "execute page template")
	}
	return buf.Bytes(), nil
}
