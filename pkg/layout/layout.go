package layout

// Layout places start-sorted events so they never overlap visually and use
// the maximum horizontal space available to them.
//
// The returned slice holds one Placed per input event, in unspecified order.
// Empty input yields an empty, non-nil slice.
func Layout(events []Event) []Placed {
	out := make([]Placed, 0, len(events))
	for _, group := range Group(events) {
		out = append(out, layoutGroup(group)...)
	}
	return out
}

// Group partitions start-sorted events into collision groups. An event joins
// the last group when it collides with any of that group's members and opens
// a new group otherwise.
func Group(events []Event) [][]Event {
	var groups [][]Event
	for _, e := range events {
		if n := len(groups); n > 0 && anyCollision(groups[n-1], e) {
			groups[n-1] = append(groups[n-1], e)
			continue
		}
		groups = append(groups, []Event{e})
	}
	return groups
}

// layoutGroup assigns Left and Width to every member of a collision group.
// All members share the same width.
func layoutGroup(group []Event) []Placed {
	rows := buildRows(group)

	maxRowLength := 0
	for _, row := range rows {
		maxRowLength = max(maxRowLength, len(row))
	}
	width := 1 / float64(maxRowLength)

	out := make([]Placed, 0, len(group))
	for _, row := range rows {
		for col, e := range row {
			if e == nil {
				continue // gap
			}
			out = append(out, Placed{
				Event: e.clone(),
				Left:  float64(col) * width,
				Width: width,
			})
		}
	}
	return out
}

// buildRows arranges group members into rows of column slots. Nil slots are
// gaps. Only the last row is ever probed; a non-colliding occupant forces a
// new row that keeps the probed column index.
func buildRows(group []Event) [][]*Event {
	rows := [][]*Event{nil}
	for i := range group {
		e := &group[i]
		for col := 0; ; col++ {
			last := len(rows) - 1
			if col >= len(rows[last]) || rows[last][col] == nil {
				rows[last] = occupy(rows[last], col, e)
				break
			}
			if !Collides(*rows[last][col], *e) {
				rows = append(rows, occupy(nil, col, e))
				break
			}
		}
	}
	return rows
}

func occupy(row []*Event, col int, e *Event) []*Event {
	for len(row) <= col {
		row = append(row, nil)
	}
	row[col] = e
	return row
}

func anyCollision(events []Event, e Event) bool {
	for _, prev := range events {
		if Collides(prev, e) {
			return true
		}
	}
	return false
}
