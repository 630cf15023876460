package layout

import (
	"cmp"
	"math"
	"slices"
	"testing"
)

func ev(start, end float64) Event { return Event{Start: start, End: end} }

func placed(start, end, left, width float64) Placed {
	return Placed{Event: ev(start, end), Left: left, Width: width}
}

// sortPlaced orders output deterministically; Layout makes no ordering promise.
func sortPlaced(ps []Placed) []Placed {
	out := slices.Clone(ps)
	slices.SortFunc(out, func(a, b Placed) int {
		return cmp.Or(
			cmp.Compare(a.Start, b.Start),
			cmp.Compare(a.End, b.End),
			cmp.Compare(a.Left, b.Left),
		)
	})
	return out
}

func assertPlaced(t *testing.T, got, want []Placed) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(got), len(want), got)
	}
	got, want = sortPlaced(got), sortPlaced(want)
	for i := range want {
		g, w := got[i], want[i]
		if g.Start != w.Start || g.End != w.End {
			t.Errorf("[%d] interval = {%v,%v}, want {%v,%v}", i, g.Start, g.End, w.Start, w.End)
		}
		if math.Abs(g.Left-w.Left) > 1e-9 {
			t.Errorf("[%d] {%v,%v} Left = %v, want %v", i, g.Start, g.End, g.Left, w.Left)
		}
		if math.Abs(g.Width-w.Width) > 1e-9 {
			t.Errorf("[%d] {%v,%v} Width = %v, want %v", i, g.Start, g.End, g.Width, w.Width)
		}
	}
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   []Placed
	}{
		{
			name:   "empty input yields empty result",
			events: nil,
			want:   nil,
		},
		{
			name:   "single event uses full width",
			events: []Event{ev(1, 2)},
			want:   []Placed{placed(1, 2, 0, 1)},
		},
		{
			name:   "events not colliding use full width",
			events: []Event{ev(1, 2), ev(2, 3)},
			want:   []Placed{placed(1, 2, 0, 1), placed(2, 3, 0, 1)},
		},
		{
			name:   "colliding events are side by side",
			events: []Event{ev(1, 2), ev(1, 2)},
			want:   []Placed{placed(1, 2, 0, 0.5), placed(1, 2, 0.5, 0.5)},
		},
		{
			name:   "maximum possible horizontal space is used",
			events: []Event{ev(1, 3), ev(2, 4), ev(3, 4)},
			want:   []Placed{placed(1, 3, 0, 0.5), placed(2, 4, 0.5, 0.5), placed(3, 4, 0, 0.5)},
		},
		{
			name:   "two non subsequent events collide",
			events: []Event{ev(1, 4), ev(2, 3), ev(3, 4)},
			want:   []Placed{placed(1, 4, 0, 0.5), placed(2, 3, 0.5, 0.5), placed(3, 4, 0.5, 0.5)},
		},
		{
			name:   "more non subsequent events collide",
			events: []Event{ev(1, 4), ev(2, 3), ev(3, 5), ev(4, 5)},
			want: []Placed{
				placed(1, 4, 0, 0.5),
				placed(2, 3, 0.5, 0.5),
				placed(4, 5, 0, 0.5),
				placed(3, 5, 0.5, 0.5),
			},
		},
		{
			name:   "three way collision shares thirds",
			events: []Event{ev(0, 60), ev(10, 60), ev(20, 60)},
			want: []Placed{
				placed(0, 60, 0, 1.0/3),
				placed(10, 60, 1.0/3, 1.0/3),
				placed(20, 60, 2.0/3, 1.0/3),
			},
		},
		{
			name:   "separate groups get independent widths",
			events: []Event{ev(0, 30), ev(0, 30), ev(30, 60), ev(60, 90), ev(60, 90), ev(60, 90), ev(60, 90)},
			want: []Placed{
				placed(0, 30, 0, 0.5),
				placed(0, 30, 0.5, 0.5),
				placed(30, 60, 0, 1),
				placed(60, 90, 0, 0.25),
				placed(60, 90, 0.25, 0.25),
				placed(60, 90, 0.5, 0.25),
				placed(60, 90, 0.75, 0.25),
			},
		},
		{
			name:   "zero length event collides with nothing after it",
			events: []Event{ev(5, 5), ev(5, 10)},
			want:   []Placed{placed(5, 5, 0, 1), placed(5, 10, 0, 1)},
		},
		{
			// The gap in column 0 of the second row still counts toward
			// the row length.
			name:   "gaps count toward row length",
			events: []Event{ev(0, 100), ev(0, 10), ev(10, 20)},
			want: []Placed{
				placed(0, 100, 0, 0.5),
				placed(0, 10, 0.5, 0.5),
				placed(10, 20, 0.5, 0.5),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPlaced(t, Layout(tt.events), tt.want)
		})
	}
}

func TestLayoutEmptyIsNonNil(t *testing.T) {
	if got := Layout(nil); got == nil || len(got) != 0 {
		t.Errorf("Layout(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestLayoutRowOrder(t *testing.T) {
	// Output is emitted row by row, column by column.
	got := Layout([]Event{ev(1, 4), ev(2, 3), ev(3, 5), ev(4, 5)})
	want := [][2]float64{{1, 4}, {2, 3}, {4, 5}, {3, 5}}
	for i, w := range want {
		if got[i].Start != w[0] || got[i].End != w[1] {
			t.Errorf("[%d] = {%v,%v}, want {%v,%v}", i, got[i].Start, got[i].End, w[0], w[1])
		}
	}
}

func TestLayoutDoesNotMutateInput(t *testing.T) {
	events := []Event{
		{ID: "a", Start: 0, End: 30, Meta: map[string]any{"room": "1"}},
		{ID: "b", Start: 10, End: 20},
	}
	snapshot := []Event{
		{ID: "a", Start: 0, End: 30, Meta: map[string]any{"room": "1"}},
		{ID: "b", Start: 10, End: 20},
	}

	out := Layout(events)
	for i := range out {
		if out[i].Meta != nil {
			out[i].Meta["room"] = "changed"
		}
	}

	for i := range events {
		if events[i].ID != snapshot[i].ID || events[i].Start != snapshot[i].Start || events[i].End != snapshot[i].End {
			t.Errorf("input event %d modified: %+v", i, events[i])
		}
	}
	if events[0].Meta["room"] != "1" {
		t.Errorf("input Meta shared with output: %v", events[0].Meta)
	}
}

func TestLayoutCarriesExtraFields(t *testing.T) {
	out := Layout([]Event{{ID: "x", Title: "Standup", Start: 0, End: 15, Meta: map[string]any{"color": "red"}}})
	if len(out) != 1 {
		t.Fatalf("got %d events, want 1", len(out))
	}
	if out[0].ID != "x" || out[0].Title != "Standup" || out[0].Meta["color"] != "red" {
		t.Errorf("extra fields not carried: %+v", out[0])
	}
}

func TestLayoutInvariants(t *testing.T) {
	inputs := [][]Event{
		{ev(0, 60), ev(15, 45), ev(30, 90), ev(40, 50), ev(45, 120), ev(100, 130), ev(200, 210)},
		{ev(0, 10), ev(0, 20), ev(0, 30), ev(5, 6), ev(10, 40), ev(20, 25), ev(29, 31)},
		{ev(540, 600), ev(545, 560), ev(550, 700), ev(600, 615), ev(610, 620), ev(615, 640)},
	}

	for n, events := range inputs {
		out := Layout(events)
		if len(out) != len(events) {
			t.Fatalf("input %d: got %d events, want %d", n, len(out), len(events))
		}

		widthByGroup := map[int]float64{}
		for _, p := range out {
			if p.Left < 0 || p.Left >= 1 {
				t.Errorf("input %d: Left %v out of [0,1)", n, p.Left)
			}
			if p.Width <= 0 || p.Width > 1 {
				t.Errorf("input %d: Width %v out of (0,1]", n, p.Width)
			}
			if p.Right() > 1+1e-9 {
				t.Errorf("input %d: Left+Width = %v > 1", n, p.Right())
			}

			g := groupIndex(Group(events), p.Event)
			if w, ok := widthByGroup[g]; ok && w != p.Width {
				t.Errorf("input %d: group %d has widths %v and %v", n, g, w, p.Width)
			}
			widthByGroup[g] = p.Width
		}
	}
}

func groupIndex(groups [][]Event, e Event) int {
	for i, g := range groups {
		for _, m := range g {
			if m.Start == e.Start && m.End == e.End {
				return i
			}
		}
	}
	return -1
}

func TestLayoutIdempotentGrouping(t *testing.T) {
	events := []Event{ev(0, 60), ev(15, 45), ev(30, 90), ev(100, 130), ev(120, 140)}

	first := Layout(events)
	again := make([]Event, len(first))
	for i, p := range first {
		again[i] = Event{Start: p.Start, End: p.End}
	}
	second := Layout(SortByStart(again))

	if len(first) != len(second) {
		t.Fatalf("got %d events, want %d", len(second), len(first))
	}
	widths := func(ps []Placed) map[[2]float64]float64 {
		m := map[[2]float64]float64{}
		for _, p := range ps {
			m[[2]float64{p.Start, p.End}] = p.Width
		}
		return m
	}
	w1, w2 := widths(first), widths(second)
	for k, w := range w1 {
		if w2[k] != w {
			t.Errorf("width of %v = %v after re-layout, want %v", k, w2[k], w)
		}
	}
}

func TestGroup(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		sizes  []int
	}{
		{"empty", nil, nil},
		{"single", []Event{ev(0, 1)}, []int{1}},
		{"touching events are separate", []Event{ev(0, 1), ev(1, 2)}, []int{1, 1}},
		{"chain joins one group", []Event{ev(0, 10), ev(5, 15), ev(12, 20)}, []int{3}},
		{"only the last group is consulted", []Event{ev(0, 100), ev(100, 110), ev(50, 60)}, []int{1, 1, 1}},
		{"two groups", []Event{ev(0, 10), ev(5, 8), ev(20, 30), ev(25, 35)}, []int{2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := Group(tt.events)
			if len(groups) != len(tt.sizes) {
				t.Fatalf("got %d groups, want %d", len(groups), len(tt.sizes))
			}
			for i, g := range groups {
				if len(g) != tt.sizes[i] {
					t.Errorf("group %d has %d events, want %d", i, len(g), tt.sizes[i])
				}
			}
		})
	}
}

func TestCollides(t *testing.T) {
	tests := []struct {
		name string
		a, b Event
		want bool
	}{
		{"identical", ev(1, 2), ev(1, 2), true},
		{"b starts inside a", ev(1, 3), ev(2, 4), true},
		{"b starts at a end", ev(1, 2), ev(2, 3), false},
		{"b after a", ev(1, 2), ev(5, 6), false},
		{"a zero length", ev(2, 2), ev(2, 3), false},
		{"order dependent: b before a", ev(2, 4), ev(1, 3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Collides(tt.a, tt.b); got != tt.want {
				t.Errorf("Collides(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestOverlapsIsSymmetric(t *testing.T) {
	pairs := [][2]Event{
		{ev(1, 3), ev(2, 4)},
		{ev(1, 2), ev(2, 3)},
		{ev(0, 10), ev(3, 4)},
		{ev(5, 6), ev(0, 1)},
	}
	for _, p := range pairs {
		if Overlaps(p[0], p[1]) != Overlaps(p[1], p[0]) {
			t.Errorf("Overlaps(%v, %v) is not symmetric", p[0], p[1])
		}
	}
	if !Overlaps(ev(2, 4), ev(1, 3)) {
		t.Error("Overlaps should detect a collision regardless of argument order")
	}
}

func TestSortByStart(t *testing.T) {
	events := []Event{{ID: "c", Start: 3}, {ID: "a", Start: 1}, {ID: "b1", Start: 2}, {ID: "b2", Start: 2}}
	sorted := SortByStart(events)

	want := []string{"a", "b1", "b2", "c"}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Errorf("sorted[%d].ID = %q, want %q", i, sorted[i].ID, id)
		}
	}
	if events[0].ID != "c" {
		t.Error("SortByStart must not reorder its input")
	}
	if !IsSorted(sorted) {
		t.Error("IsSorted(sorted) = false")
	}
	if IsSorted(events) {
		t.Error("IsSorted(unsorted) = true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		events  []Event
		wantErr bool
		index   int
	}{
		{"empty", nil, false, 0},
		{"valid", []Event{ev(0, 10), ev(5, 5)}, false, 0},
		{"end before start", []Event{ev(0, 10), ev(20, 10)}, true, 1},
		{"nan start", []Event{ev(math.NaN(), 10)}, true, 0},
		{"infinite end", []Event{ev(0, 10), ev(5, 6), ev(0, math.Inf(1))}, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.events)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			evErr, ok := err.(*EventError)
			if !ok {
				t.Fatalf("Validate() error type = %T, want *EventError", err)
			}
			if evErr.Index != tt.index {
				t.Errorf("EventError.Index = %d, want %d", evErr.Index, tt.index)
			}
		})
	}
}

func TestEventErrorMessage(t *testing.T) {
	err := &EventError{Index: 2, ID: "lunch", Reason: "bad"}
	if got, want := err.Error(), "event 2 (lunch): bad"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	err = &EventError{Index: 0, Reason: "bad"}
	if got, want := err.Error(), "event 0: bad"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
