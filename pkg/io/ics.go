package io

import (
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/matzehuels/dayview/pkg/errors"
	"github.com/matzehuels/dayview/pkg/layout"
)

const minutesPerDay = 24 * 60

// ReadICS decodes the VEVENTs of an iCalendar stream that intersect day.
//
// Event bounds are clipped to the day and expressed as wall-clock minutes
// after midnight in day's location, so an event running past midnight ends
// at 1440. VEVENTs without a start, all-day events and events outside the
// day are dropped. Missing DTEND yields a zero-length event.
func ReadICS(r io.Reader, day time.Time) ([]layout.Event, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse ics")
	}

	loc := day.Location()
	y, m, d := day.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var events []layout.Event
	for _, ve := range cal.Events() {
		if isAllDay(ve) {
			continue
		}
		start, err := ve.GetStartAt()
		if err != nil {
			continue
		}
		end, err := ve.GetEndAt()
		if err != nil || end.Before(start) {
			end = start
		}
		start, end = start.In(loc), end.In(loc)

		if !intersects(start, end, dayStart, dayEnd) {
			continue
		}

		e := layout.Event{
			ID:    propertyValue(ve, ical.ComponentPropertyUniqueId),
			Title: propertyValue(ve, ical.ComponentPropertySummary),
			Start: clipMinutes(start, dayStart, dayEnd),
			End:   clipMinutes(end, dayStart, dayEnd),
		}
		if where := propertyValue(ve, ical.ComponentPropertyLocation); where != "" {
			e.Meta = map[string]any{"location": where}
		}
		events = append(events, e)
	}
	return events, nil
}

// intersects reports whether [start, end) overlaps the day. Zero-length
// events count when they fall inside it.
func intersects(start, end, dayStart, dayEnd time.Time) bool {
	if start.Equal(end) {
		return !start.Before(dayStart) && start.Before(dayEnd)
	}
	return start.Before(dayEnd) && end.After(dayStart)
}

func clipMinutes(t, dayStart, dayEnd time.Time) float64 {
	switch {
	case !t.After(dayStart):
		return 0
	case !t.Before(dayEnd):
		return minutesPerDay
	}
	return float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
}

func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func propertyValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return strings.TrimSpace(p.Value)
	}
	return ""
}
