package axis

import (
	"testing"

	"github.com/matzehuels/dayview/pkg/render"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "9:00 AM"},
		{30, "9:30 "},
		{60, "10:00 AM"},
		{150, "11:30 "},
		{180, "12:00 PM"},
		{210, "12:30 "},
		{240, "1:00 PM"},
		{720, "9:00 PM"},
		{900, "12:00 PM"},
		{905, "12:05 "},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatTime(tt.minutes); got != tt.want {
				t.Errorf("FormatTime(%d) = %q, want %q", tt.minutes, got, tt.want)
			}
		})
	}
}

func TestTicks(t *testing.T) {
	ticks := Ticks(render.DefaultOptions())

	// 0..720 inclusive every 30 minutes.
	if len(ticks) != 25 {
		t.Fatalf("got %d ticks, want 25", len(ticks))
	}
	first, last := ticks[0], ticks[len(ticks)-1]
	if first.Minutes != 0 || first.Time != "9:00 AM" || first.Top != "0px" {
		t.Errorf("first tick = %+v", first)
	}
	if last.Minutes != 720 || last.Time != "9:00 PM" || last.Top != "720px" {
		t.Errorf("last tick = %+v", last)
	}
}

func TestTicksSmallDay(t *testing.T) {
	ticks := Ticks(render.Options{EndOfDay: 3, Height: 30})
	if len(ticks) != 1 {
		t.Fatalf("got %d ticks, want 1", len(ticks))
	}
	if ticks[0].Time != "9:00 AM" || ticks[0].Top != "0px" {
		t.Errorf("tick = %+v, want 9:00 AM at 0px", ticks[0])
	}
}

func TestMinutes(t *testing.T) {
	tests := []struct {
		name string
		opts render.Options
		want []int
	}{
		{"default interval", render.Options{EndOfDay: 90, Height: 90}, []int{0, 30, 60, 90}},
		{"custom interval", render.Options{EndOfDay: 60, Height: 60, TickInterval: 15}, []int{0, 15, 30, 45, 60}},
		{"end between ticks", render.Options{EndOfDay: 50, Height: 50}, []int{0, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Minutes(tt.opts)
			if len(got) != len(tt.want) {
				t.Fatalf("Minutes() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Minutes() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestElement(t *testing.T) {
	els := Elements(render.Options{EndOfDay: 60, Height: 120})
	if len(els) != 3 {
		t.Fatalf("got %d elements, want 3", len(els))
	}
	el := els[1]
	if el.Class != ClassName || el.Text != "9:30 " {
		t.Errorf("element = %+v", el)
	}
	if top, _ := el.Get("top"); top != "60px" {
		t.Errorf("top = %q, want 60px", top)
	}
}
