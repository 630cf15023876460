package sink

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dayview/pkg/layout"
	"github.com/matzehuels/dayview/pkg/render/axis"
)

// MaxColumns bounds the width of the text grid.
const MaxColumns = 1000

const (
	defaultColumns = 60
	labelWidth     = 9
	fillRune       = '░'
)

var (
	textTitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	textAxisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	textPalette    = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("170")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
)

// Text draws the day as a character grid for terminals. Each row covers
// half a tick interval (a whole one when the interval is odd); each event
// fills its columns and shows its title on its first row.
type Text struct {
	cfg config
}

// NewText returns a text sink.
func NewText(opts ...Option) *Text { return &Text{cfg: newConfig(opts...)} }

// Render implements [Renderer].
func (t *Text) Render(_ context.Context, v View) ([]byte, error) {
	v, err := prepare(v)
	if err != nil {
		return nil, err
	}
	g := newGrid(v, t.cfg.columns)

	var sb strings.Builder
	if title := t.cfg.heading(v); title != "" {
		sb.WriteString(textTitleStyle.Render(title))
		sb.WriteString("\n")
	}
	for r := range g.rows {
		sb.WriteString(g.renderRow(r))
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

type grid struct {
	rows, cols int
	rowMinutes float64
	tick       int
	cells      [][]int // event index + 1, 0 for empty
	text       [][]rune
}

func newGrid(v View, cols int) *grid {
	step := v.Options.TickInterval
	if step%2 == 0 {
		step /= 2
	}
	g := &grid{
		rows:       int(math.Floor(v.Options.EndOfDay/float64(step))) + 1,
		cols:       cols,
		rowMinutes: float64(step),
		tick:       v.Options.TickInterval,
	}
	g.cells = make([][]int, g.rows)
	g.text = make([][]rune, g.rows)
	for r := range g.rows {
		g.cells[r] = make([]int, cols)
		g.text[r] = []rune(strings.Repeat(" ", cols))
	}
	for i, p := range v.Events {
		g.place(i, p)
	}
	return g
}

// place fills the cells covered by p. Events past the last row are clipped.
func (g *grid) place(i int, p layout.Placed) {
	r0 := int(math.Floor(p.Start / g.rowMinutes))
	r1 := max(r0+1, int(math.Ceil(p.End/g.rowMinutes)))
	c0 := int(math.Round(p.Left * float64(g.cols)))
	c1 := max(c0+1, int(math.Round(p.Right()*float64(g.cols))))
	if c1-c0 > 1 {
		c1-- // keep a gap between neighbours
	}
	r0, r1 = max(0, r0), min(g.rows, r1)
	c0, c1 = max(0, c0), min(g.cols, c1)

	label := []rune(eventLabel(i, p.Event))
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			g.cells[r][c] = i + 1
			ch := fillRune
			if r == r0 {
				ch = ' '
				if k := c - c0; k < len(label) {
					ch = label[k]
				}
			}
			g.text[r][c] = ch
		}
	}
}

func (g *grid) renderRow(r int) string {
	var sb strings.Builder

	minutes := int(float64(r) * g.rowMinutes)
	label := ""
	if minutes%g.tick == 0 {
		label = axis.FormatTime(minutes)
	}
	sb.WriteString(textAxisStyle.Render(fmt.Sprintf("%*s │ ", labelWidth, strings.TrimRight(label, " "))))

	for c := 0; c < g.cols; {
		owner := g.cells[r][c]
		end := c
		for end < g.cols && g.cells[r][end] == owner {
			end++
		}
		run := string(g.text[r][c:end])
		if owner == 0 {
			sb.WriteString(run)
		} else {
			sb.WriteString(textPalette[(owner-1)%len(textPalette)].Render(run))
		}
		c = end
	}
	return strings.TrimRight(sb.String(), " ")
}

func eventLabel(i int, e layout.Event) string {
	switch {
	case e.Title != "":
		return e.Title
	case e.ID != "":
		return e.ID
	default:
		return fmt.Sprintf("#%d", i+1)
	}
}
