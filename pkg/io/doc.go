// Package io reads event lists and reads and writes computed layouts.
//
// # Event Documents
//
// Events are read from JSON, YAML, TOML or iCalendar files. The first three
// share one shape, an object with an "events" array:
//
//	{
//	  "events": [
//	    {"id": "standup", "title": "Standup", "start": 0, "end": 15},
//	    {"title": "Design review", "start": 30, "end": 90, "meta": {"room": "4B"}}
//	  ]
//	}
//
// JSON and YAML also accept a bare array. start and end are minutes from the
// start of the day and are required: a record missing either fails with
// INVALID_EVENT naming its index. id, title and meta are optional. Events without an id
// are given a random UUID so they can be told apart in rendered output.
//
// Use [ImportEvents] for files (the format follows the extension) or
// [ReadEvents] for any io.Reader.
//
// # iCalendar
//
// [ReadICS] keeps the VEVENTs that intersect one day, clips them to that day
// and converts their bounds to wall-clock minutes after midnight in the day's
// location. All-day events are skipped; recurrence rules are not expanded.
//
// # Layout Documents
//
// [WriteLayout] stores placed events together with the view options they
// were computed for, so rendering can run later without laying out again:
//
//	err := io.ExportLayout("day.layout.json", io.LayoutDocument{Options: opts, Events: placed})
//	doc, err := io.ImportLayout("day.layout.json")
//
// # Concurrency
//
// All functions are safe for concurrent use; returned slices are fresh.
package io
