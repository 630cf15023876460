package layout

import (
	"fmt"
	"math"
)

// EventError describes an event that cannot be laid out.
type EventError struct {
	Index  int    // position of the event in the input
	ID     string // event ID, if any
	Reason string
}

func (e *EventError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("event %d (%s): %s", e.Index, e.ID, e.Reason)
	}
	return fmt.Sprintf("event %d: %s", e.Index, e.Reason)
}

// Validate checks that every event has finite bounds and does not end
// before it starts. It returns the first offending event as an *EventError.
//
// Validate does not check ordering; see [IsSorted].
func Validate(events []Event) error {
	for i, e := range events {
		switch {
		case !finite(e.Start):
			return &EventError{Index: i, ID: e.ID, Reason: fmt.Sprintf("start %v is not a finite number", e.Start)}
		case !finite(e.End):
			return &EventError{Index: i, ID: e.ID, Reason: fmt.Sprintf("end %v is not a finite number", e.End)}
		case e.End < e.Start:
			return &EventError{Index: i, ID: e.ID, Reason: fmt.Sprintf("ends at %v before it starts at %v", e.End, e.Start)}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
