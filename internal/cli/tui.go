package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dayview/pkg/layout"
	"github.com/matzehuels/dayview/pkg/render/axis"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	paneStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// previewChrome is the number of lines used by the header and footer.
const previewChrome = 6

// PreviewModel is the bubbletea model for `dayview preview`: the rendered
// day grid on the left and a selectable event list with details on the right.
type PreviewModel struct {
	Title  string
	Grid   []string
	Events []layout.Placed

	Cursor int
	Offset int
	Height int
}

// NewPreviewModel creates a preview over a rendered text grid. Events are
// listed by start time.
func NewPreviewModel(title, grid string, placed []layout.Placed) PreviewModel {
	events := make([]layout.Placed, len(placed))
	copy(events, placed)
	slices.SortStableFunc(events, func(a, b layout.Placed) int { return cmp.Compare(a.Start, b.Start) })
	return PreviewModel{
		Title:  title,
		Grid:   strings.Split(strings.TrimRight(grid, "\n"), "\n"),
		Events: events,
		Height: 20,
	}
}

func (m PreviewModel) Init() tea.Cmd { return nil }

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Events)-1 {
				m.Cursor++
			}
		case "pgup", "b":
			m.Offset = max(0, m.Offset-m.Height)
		case "pgdown", "f", " ":
			m.Offset = min(m.maxOffset(), m.Offset+m.Height)
		case "home", "g":
			m.Offset = 0
		case "end", "G":
			m.Offset = m.maxOffset()
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-previewChrome)
		m.Offset = min(m.Offset, m.maxOffset())
	}
	return m, nil
}

func (m PreviewModel) maxOffset() int {
	return max(0, len(m.Grid)-m.Height)
}

func (m PreviewModel) View() string {
	var b strings.Builder

	title := "Day preview"
	if m.Title != "" {
		title = m.Title
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  pgup/pgdn scroll  q quit"))
	b.WriteString("\n\n")

	end := min(len(m.Grid), m.Offset+m.Height)
	grid := paneStyle.Render(strings.Join(m.Grid[m.Offset:end], "\n"))
	side := paneStyle.Render(m.eventList() + "\n\n" + m.details())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, grid, " ", side))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  lines %d-%d of %d", m.Offset+1, end, len(m.Grid))))

	return b.String()
}

func (m PreviewModel) eventList() string {
	if len(m.Events) == 0 {
		return listDimStyle.Render("no events")
	}
	lines := make([]string, len(m.Events))
	for i, p := range m.Events {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		lines[i] = style.Render(fmt.Sprintf("%s%s  %s", cursor, timeRange(p.Event), label(p.Event)))
	}
	return strings.Join(lines, "\n")
}

func (m PreviewModel) details() string {
	if len(m.Events) == 0 {
		return ""
	}
	p := m.Events[m.Cursor]
	rows := [][2]string{
		{"id", p.ID},
		{"start", fmt.Sprintf("%g", p.Start)},
		{"end", fmt.Sprintf("%g", p.End)},
		{"left", fmt.Sprintf("%.3g", p.Left)},
		{"width", fmt.Sprintf("%.3g", p.Width)},
	}
	for k, v := range p.Meta {
		rows = append(rows, [2]string{k, fmt.Sprint(v)})
	}
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styleKey.Render(r[0]) + " " + StyleValue.Render(r[1]))
	}
	return b.String()
}

// timeRange formats an event's bounds on the axis clock, e.g. "9:00-10:30".
func timeRange(e layout.Event) string {
	return clock(e.Start) + "-" + clock(e.End)
}

// clock drops the AM/PM suffix that the axis only puts on full hours.
func clock(minutes float64) string {
	s := axis.FormatTime(int(minutes))
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

func label(e layout.Event) string {
	if e.Title != "" {
		return e.Title
	}
	if e.ID != "" {
		return e.ID
	}
	return "(untitled)"
}
