package calendar

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dayview/pkg/errors"
	"github.com/matzehuels/dayview/pkg/layout"
	"github.com/matzehuels/dayview/pkg/render"
	"github.com/matzehuels/dayview/pkg/render/sink"
)

type recordingRenderer struct {
	views []sink.View
}

func (r *recordingRenderer) Render(_ context.Context, v sink.View) ([]byte, error) {
	r.views = append(r.views, v)
	return []byte("rendered"), nil
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestLayoutDaySortsCopy(t *testing.T) {
	events := []layout.Event{
		{ID: "late", Start: 120, End: 180},
		{ID: "early", Start: 0, End: 60},
		{ID: "overlap", Start: 30, End: 90},
	}
	rec := &recordingRenderer{}
	cal := New(rec, WithLogger(quietLogger()))

	d, err := cal.LayoutDay(context.Background(), events)
	if err != nil {
		t.Fatalf("LayoutDay() error: %v", err)
	}

	if events[0].ID != "late" {
		t.Error("LayoutDay reordered the caller's slice")
	}
	if string(d.Output) != "rendered" {
		t.Errorf("Output = %q", d.Output)
	}
	if len(d.Events) != 3 || len(d.Boxes) != 3 {
		t.Fatalf("got %d events and %d boxes, want 3", len(d.Events), len(d.Boxes))
	}

	widths := map[string]float64{}
	for _, p := range d.Events {
		widths[p.ID] = p.Width
	}
	if widths["early"] != 0.5 || widths["overlap"] != 0.5 || widths["late"] != 1 {
		t.Errorf("widths = %v", widths)
	}

	if len(rec.views) != 1 {
		t.Fatalf("renderer called %d times, want 1", len(rec.views))
	}
	if rec.views[0].Options != render.DefaultOptions() {
		t.Errorf("renderer options = %+v", rec.views[0].Options)
	}
}

func TestLayoutDayInjectedLayout(t *testing.T) {
	var got []layout.Event
	fake := func(events []layout.Event) []layout.Placed {
		got = events
		out := make([]layout.Placed, len(events))
		for i, e := range events {
			out[i] = layout.Placed{Event: e, Left: 0, Width: 1}
		}
		return out
	}

	cal := New(nil, WithLayout(fake), WithLogger(quietLogger()))
	d, err := cal.LayoutDay(context.Background(), []layout.Event{{Start: 5, End: 6}, {Start: 1, End: 2}})
	if err != nil {
		t.Fatalf("LayoutDay() error: %v", err)
	}
	if !layout.IsSorted(got) {
		t.Error("layout function received unsorted events")
	}
	if d.Output != nil {
		t.Error("nil renderer should produce no output")
	}
	if len(d.Ticks) != 25 {
		t.Errorf("got %d ticks, want 25", len(d.Ticks))
	}
}

func TestLayoutDayRenderScenario(t *testing.T) {
	r, err := sink.New(sink.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	cal := New(r, WithOptions(render.Options{EndOfDay: 3, Height: 30}), WithLogger(quietLogger()))

	d, err := cal.LayoutDay(context.Background(), []layout.Event{{Start: 1, End: 2}})
	if err != nil {
		t.Fatalf("LayoutDay() error: %v", err)
	}
	b := d.Boxes[0]
	if b.Top != "10px" || b.Height != "10px" || b.Left != "0%" || b.Width != "100%" {
		t.Errorf("box = %+v", b)
	}
	if !strings.Contains(string(d.Output), `"top": "10px"`) {
		t.Errorf("JSON output missing box: %s", d.Output)
	}
}

func TestLayoutDayErrors(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		events []layout.Event
		code   errors.Code
	}{
		{
			name:   "event ends before it starts",
			events: []layout.Event{{Start: 10, End: 5}},
			code:   errors.ErrCodeInvalidEvent,
		},
		{
			name:   "negative height",
			opts:   []Option{WithOptions(render.Options{EndOfDay: 60, Height: -1})},
			events: []layout.Event{{Start: 0, End: 5}},
			code:   errors.ErrCodeInvalidOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := New(nil, append(tt.opts, WithLogger(quietLogger()))...)
			_, err := cal.LayoutDay(context.Background(), tt.events)
			if !errors.Is(err, tt.code) {
				t.Errorf("LayoutDay() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLayoutDayCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(nil).LayoutDay(ctx, nil); err == nil {
		t.Error("LayoutDay() on canceled context should fail")
	}
}
