package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/dayview/internal/config"
	pkgio "github.com/matzehuels/dayview/pkg/io"
	"github.com/matzehuels/dayview/pkg/layout"
	"github.com/matzehuels/dayview/pkg/render/axis"
)

const dayEvents = `{"events":[
  {"id":"a","title":"Standup","start":30,"end":150},
  {"id":"b","title":"Review","start":540,"end":600},
  {"id":"c","title":"Lunch","start":560,"end":620}
]}`

// run executes the root command with an isolated config file and returns
// what the command printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	oldOut, oldSpin := stdout, spinnerOut
	stdout, spinnerOut = &out, io.Discard
	t.Cleanup(func() { stdout, spinnerOut = oldOut, oldSpin })

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	cfg := filepath.Join(t.TempDir(), config.FileName)
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeDay(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "day.json")
	if err := os.WriteFile(path, []byte(dayEvents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPick(t *testing.T) {
	if got := pick(0.0, 720.0); got != 720 {
		t.Errorf("pick(0, 720) = %v", got)
	}
	if got := pick(600.0, 720.0); got != 600 {
		t.Errorf("pick(600, 720) = %v", got)
	}
	if got := pick("", "Monday"); got != "Monday" {
		t.Errorf("pick(\"\", Monday) = %q", got)
	}
}

func TestParseFormats(t *testing.T) {
	defaults := []string{"html"}
	tests := []struct {
		in   string
		want []string
	}{
		{"", defaults},
		{"  ", defaults},
		{"svg", []string{"svg"}},
		{"SVG, json,,text", []string{"svg", "json", "text"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseFormats(tt.in, defaults); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "day.json", "day"},
		{"", "dir/day.ics", "dir/day"},
		{"", "day.layout.json", "day"},
		{"", "-", "dayview"},
		{"out", "day.json", "out"},
		{"out.svg", "day.json", "out"},
		{"out.txt", "day.json", "out"},
		{"out.view.json", "day.json", "out"},
		{"out.v2", "day.json", "out.v2"},
	}
	for _, tt := range tests {
		t.Run(tt.output+"|"+tt.input, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		format, input, output string
		single                bool
		want                  string
	}{
		{"svg", "day.json", "", true, "day.svg"},
		{"json", "day.json", "", true, "day.view.json"},
		{"text", "day.yaml", "", false, "day.txt"},
		{"html", "day.json", "page.html", true, "page.html"},
		{"html", "day.json", "site/page", false, "site/page.html"},
	}
	for _, tt := range tests {
		t.Run(tt.format+"|"+tt.output, func(t *testing.T) {
			if got := artifactPath(tt.format, tt.input, tt.output, tt.single); got != tt.want {
				t.Errorf("artifactPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLayoutPath(t *testing.T) {
	if got := layoutPath("dir/day.ics"); got != "dir/day"+pkgio.LayoutExt {
		t.Errorf("layoutPath() = %q", got)
	}
}

func TestOptions(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.View.Title = "From config"
	c.Config.Server.Timezone = "Europe/Berlin"

	opts, err := c.options("day.ics", viewFlags{height: 1440, day: "2026-03-02"})
	if err != nil {
		t.Fatalf("options() error: %v", err)
	}
	if opts.Height != 1440 || opts.EndOfDay != c.Config.View.EndOfDay {
		t.Errorf("geometry = %v/%v", opts.Height, opts.EndOfDay)
	}
	if opts.Title != "From config" {
		t.Errorf("Title = %q", opts.Title)
	}
	if opts.Day.Location().String() != "Europe/Berlin" || opts.Day.Day() != 2 || opts.Day.Hour() != 0 {
		t.Errorf("Day = %v", opts.Day)
	}

	if _, err := c.options("day.ics", viewFlags{day: "02.03.2026"}); err == nil {
		t.Error("options() accepted a malformed --day")
	}
}

func TestAxisTable(t *testing.T) {
	out := axisTable([]axis.Tick{
		{Minutes: 0, Time: "9:00 AM", Top: "0px"},
		{Minutes: 30, Time: "9:30 ", Top: "30px"},
	})
	for _, want := range []string{"Minutes", "9:00 AM", "30px"} {
		if !strings.Contains(out, want) {
			t.Errorf("axis table lacks %q:\n%s", want, out)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{0: "0 B", 1023: "1023 B", 1536: "1.5 KiB", 3 << 20: "3.0 MiB"}
	for n, want := range tests {
		if got := formatBytes(n); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestAxisCommand(t *testing.T) {
	out, err := run(t, "axis", "--json", "--end-of-day", "120", "--height", "240", "--tick-interval", "60")
	if err != nil {
		t.Fatalf("axis: %v", err)
	}
	var ticks []axis.Tick
	if err := json.Unmarshal([]byte(out), &ticks); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(ticks) != 3 || ticks[1].Time != "10:00 AM" || ticks[2].Top != "240px" {
		t.Errorf("ticks = %+v", ticks)
	}
}

func TestLayoutAndRenderCommands(t *testing.T) {
	events := writeDay(t)
	dir := filepath.Dir(events)

	if _, err := run(t, "layout", events, "--no-cache", "--end-of-day", "660", "--title", "Monday"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	stored := filepath.Join(dir, "day"+pkgio.LayoutExt)
	doc, err := pkgio.ImportLayout(stored)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if len(doc.Events) != 3 || doc.Title != "Monday" || doc.Options.EndOfDay != 660 {
		t.Errorf("layout document = %+v", doc)
	}

	if _, err := run(t, "render", stored, "--no-cache", "-f", "svg,json"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, name := range []string{"day.svg", "day.view.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
	data, err := os.ReadFile(events)
	if err != nil || string(data) != dayEvents {
		t.Errorf("render modified the events file: %v", err)
	}
}

func TestRenderTextToStdout(t *testing.T) {
	out, err := run(t, "render", writeDay(t), "--no-cache", "-f", "text", "--columns", "40")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "9:00 AM") {
		t.Errorf("text output lacks axis label:\n%s", out)
	}
}

func TestRenderErrors(t *testing.T) {
	events := writeDay(t)
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"render", events, "-f", "gif"}},
		{"stdout needs one format", []string{"render", events, "--no-cache", "-f", "svg,html", "-o", "-"}},
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "none.json"), "--no-cache"}},
		{"bad geometry", []string{"render", events, "--no-cache", "--height=-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("run(%v) succeeded", tt.args)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", config.FileName)

	c := New(io.Discard, LogInfo)
	var out bytes.Buffer
	oldOut := stdout
	stdout = &out
	t.Cleanup(func() { stdout = oldOut })

	exec := func(args ...string) {
		t.Helper()
		root := c.RootCommand()
		root.SetArgs(append([]string{"--config", path}, args...))
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	exec("config", "init")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config init wrote nothing: %v", err)
	}

	out.Reset()
	exec("config", "path")
	if strings.TrimSpace(out.String()) != path {
		t.Errorf("config path = %q, want %q", out.String(), path)
	}

	out.Reset()
	exec("config", "show")
	if !strings.Contains(out.String(), "[view]") || !strings.Contains(out.String(), "end_of_day") {
		t.Errorf("config show = %q", out.String())
	}
}

func TestCacheCommands(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	t.Setenv("DAYVIEW_CACHE_DIR", dir)
	events := writeDay(t)

	out, err := run(t, "cache", "clear")
	if err != nil || !strings.Contains(out, "Cache is empty") {
		t.Fatalf("clear on missing dir = %q, %v", out, err)
	}

	if _, err := run(t, "render", events, "-f", "svg", "-o", filepath.Join(t.TempDir(), "out.svg")); err != nil {
		t.Fatalf("render: %v", err)
	}

	out, err = run(t, "cache", "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "Entries") || !strings.Contains(out, "2") {
		t.Errorf("stats = %q, want layout and svg entries", out)
	}

	out, err = run(t, "cache", "clear")
	if err != nil || !strings.Contains(out, "Cleared 2 cache entries") {
		t.Errorf("clear = %q, %v", out, err)
	}
}

func TestPreviewModel(t *testing.T) {
	empty := NewPreviewModel("Monday", "row 1\nrow 2\nrow 3\n", nil)
	if len(empty.Grid) != 3 {
		t.Fatalf("Grid = %q", empty.Grid)
	}
	if !strings.Contains(empty.View(), "no events") {
		t.Error("empty preview should say so")
	}

	placed := []layout.Placed{
		{Event: layout.Event{ID: "b", Title: "Review", Start: 540, End: 600}, Width: 0.5},
		{Event: layout.Event{ID: "a", Title: "Standup", Start: 30, End: 150}, Width: 1},
	}
	m := NewPreviewModel("Monday", "grid", placed)
	if m.Events[0].ID != "a" {
		t.Fatalf("events not sorted by start: %+v", m.Events)
	}

	steps := []struct {
		key  tea.KeyType
		want int
	}{
		{tea.KeyUp, 0},
		{tea.KeyDown, 1},
		{tea.KeyDown, 1},
		{tea.KeyUp, 0},
	}
	for _, s := range steps {
		next, _ := m.Update(tea.KeyMsg{Type: s.key})
		m = next.(PreviewModel)
		if m.Cursor != s.want {
			t.Errorf("after %v cursor = %d, want %d", s.key, m.Cursor, s.want)
		}
	}

	view := m.View()
	for _, want := range []string{"Monday", "Standup", "9:30-11:30"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range completionShells {
		t.Run(shell, func(t *testing.T) {
			out, err := run(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out, "dayview") {
				t.Errorf("completion %s output lacks program name", shell)
			}
		})
	}

	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("completion accepted an unknown shell")
	}
}

func TestVerboseFlag(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		var logs bytes.Buffer
		oldOut := stdout
		stdout = io.Discard
		c := New(&logs, LogInfo)
		root := c.RootCommand()
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		args := []string{"--config", filepath.Join(t.TempDir(), config.FileName), "axis", "--json"}
		if verbose {
			args = append([]string{"-v"}, args...)
		}
		root.SetArgs(args)
		err := root.ExecuteContext(context.Background())
		stdout = oldOut
		if err != nil {
			t.Fatalf("verbose=%v: %v", verbose, err)
		}
		if got := strings.Contains(logs.String(), "loaded config"); got != verbose {
			t.Errorf("verbose=%v: debug log present = %v, logs %q", verbose, got, logs.String())
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitOK},
		{"failure", errors.New("boom"), ExitFailure},
		{"interrupted", context.Canceled, ExitInterrupted},
		{"interrupted wrapped", fmt.Errorf("render: %w", context.Canceled), ExitInterrupted},
		{"deadline", context.DeadlineExceeded, ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
