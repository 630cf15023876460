// Package layout computes the horizontal placement of events in a single-day
// calendar view.
//
// # Overview
//
// Events are time intervals measured in minutes from the start of the day.
// [Layout] assigns every event a fractional horizontal offset (Left) and
// width (Width) so that overlapping events sit side by side and share the
// available width equally, while events that overlap nothing use the full
// width of the view.
//
// # Algorithm
//
// The computation runs in three stages:
//
//  1. Grouping ([Group]): events are walked in start order. An event that
//     collides with any member of the most recent group joins it, otherwise
//     it opens a new group. Groups left behind are never revisited.
//  2. Column assignment: inside a group, events are placed into rows of
//     column slots. An event probes the columns of the last row from 0: an
//     empty slot is taken, a colliding occupant moves the probe one column to
//     the right, and a non-colliding occupant starts a fresh row at the same
//     column index. Earlier rows are never searched for free slots.
//  3. Width computation: the widest row of a group (gaps included) determines
//     the shared width 1/n; each event's Left is its column times that width.
//
// # Ordering
//
// The input must be sorted by Start. [Layout] does not sort and performs no
// validation; unsorted input yields overlapping geometry rather than an
// error. Use [SortByStart] and [Validate] when the input is untrusted. The
// output order is unspecified.
//
// # Concurrency
//
// All functions are pure. They never modify the caller's events (Meta maps
// are cloned into the output) and are safe for concurrent use.
package layout
