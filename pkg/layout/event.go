package layout

import (
	"cmp"
	"maps"
	"slices"
)

// Event is a time interval on the day view. Start is inclusive, End is
// exclusive, both in minutes from the start of the day.
type Event struct {
	ID    string         `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Title string         `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Start float64        `json:"start" yaml:"start" toml:"start"`
	End   float64        `json:"end" yaml:"end" toml:"end"`
	Meta  map[string]any `json:"meta,omitempty" yaml:"meta,omitempty" toml:"meta,omitempty"`
}

// Duration returns the length of the event in minutes.
func (e Event) Duration() float64 { return e.End - e.Start }

func (e Event) clone() Event {
	e.Meta = maps.Clone(e.Meta)
	return e
}

// Placed is an Event annotated with its horizontal placement. Left and Width
// are fractions of the view width.
type Placed struct {
	Event
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// Right returns the fractional right edge of the event.
func (p Placed) Right() float64 { return p.Left + p.Width }

// Collides reports whether b starts while a is still running.
// It assumes a starts no later than b; use [Overlaps] when the order of the
// pair is unknown.
func Collides(a, b Event) bool {
	return a.Start <= b.Start && a.End > b.Start
}

// Overlaps is the order-independent form of [Collides].
func Overlaps(a, b Event) bool {
	if b.Start < a.Start {
		a, b = b, a
	}
	return Collides(a, b)
}

// IsSorted reports whether events are in ascending Start order.
func IsSorted(events []Event) bool {
	return slices.IsSortedFunc(events, compareStart)
}

// SortByStart returns a copy of events stably sorted by Start.
func SortByStart(events []Event) []Event {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, compareStart)
	return sorted
}

func compareStart(a, b Event) int {
	return cmp.Compare(a.Start, b.Start)
}
