package render

import (
	"html"
	"strings"
)

// Element is a visual node produced by a template: a tag with a class, an
// optional text body and ordered style declarations.
type Element struct {
	Tag   string        `json:"tag"`
	Class string        `json:"class,omitempty"`
	Text  string        `json:"text,omitempty"`
	Style []Declaration `json:"style,omitempty"`
	Attrs []Attr        `json:"attrs,omitempty"`
}

// Declaration is a single CSS property.
type Declaration struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// Attr is an additional markup attribute.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Rect is absolute pixel geometry.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Get returns the value of a style property.
func (e Element) Get(property string) (string, bool) {
	for _, d := range e.Style {
		if d.Property == property {
			return d.Value, true
		}
	}
	return "", false
}

// CSS returns the inline style string, e.g. "width: 50%; top: 10px".
func (e Element) CSS() string {
	parts := make([]string, len(e.Style))
	for i, d := range e.Style {
		parts[i] = d.Property + ": " + d.Value
	}
	return strings.Join(parts, "; ")
}

// HTML returns the element as escaped markup. Tag defaults to div.
func (e Element) HTML() string {
	tag := e.Tag
	if !validTag(tag) {
		tag = "div"
	}

	var b strings.Builder
	b.WriteString("<" + tag)
	if e.Class != "" {
		b.WriteString(` class="` + html.EscapeString(e.Class) + `"`)
	}
	if len(e.Style) > 0 {
		b.WriteString(` style="` + html.EscapeString(e.CSS()) + `"`)
	}
	for _, a := range e.Attrs {
		if !validTag(a.Name) {
			continue
		}
		b.WriteString(" " + a.Name + `="` + html.EscapeString(a.Value) + `"`)
	}
	b.WriteString(">" + html.EscapeString(e.Text) + "</" + tag + ">")
	return b.String()
}

func validTag(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
