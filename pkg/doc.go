// Package pkg provides the core libraries for dayview calendar day layouts.
//
// # Overview
//
// dayview takes the events of a single day and places them on a vertical time
// axis. Events that overlap share the width of the view: each collision group
// is split into equal columns and an event widens to the right while its
// neighbours leave room. The pkg directory is organized into these areas:
//
//  1. [layout] - Domain logic (collision groups, row packing, placement)
//  2. [render] - Projection of placed events onto pixels and output formats
//  3. [io] - Reading events (JSON, YAML, TOML, iCalendar) and stored layouts
//  4. [pipeline] - Orchestration (load → layout → render) with caching
//  5. [cache] - File, Redis and no-op cache backends
//
// # Architecture
//
// The typical data flow through dayview:
//
//	Events file / HTTP request body
//	         ↓
//	    [io] package (decode and validate events)
//	         ↓
//	    [layout] package (groups → rows → left/width fractions)
//	         ↓
//	    [render/day], [render/axis] (boxes and tick labels in pixels)
//	         ↓
//	    HTML/SVG/JSON/text/PNG output
//
// # Quick Start
//
// Lay out a day and render it to SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/dayview/pkg/calendar"
//	    "github.com/matzehuels/dayview/pkg/io"
//	    "github.com/matzehuels/dayview/pkg/render/sink"
//	)
//
//	events, _ := io.ImportEvents("monday.yaml")
//	cal := calendar.New(sink.NewSVG(), calendar.WithTitle("Monday"))
//	day, _ := cal.LayoutDay(context.Background(), events)
//	os.WriteFile("monday.svg", day.Output, 0o644)
//
// # Main Packages
//
// [layout] - Pure layout engine. [layout.Layout] expects events sorted by
// start and returns them with Left and Width as fractions of the view width.
// It never touches pixels.
//
// [render] - View geometry ([render.Options]) and the element model shared by
// the sinks. Subpackages:
//
//   - [render/day]: event boxes in pixels
//   - [render/axis]: time labels every tick interval, starting at 9:00 AM
//   - [render/sink]: output formats (HTML, SVG, JSON, text, PNG)
//
// [calendar] - One-call facade: validate, sort, lay out and render a day.
//
// [pipeline] - The load → layout → render pipeline used by the CLI and the
// HTTP server. Layouts are cached by the hash of the events; artifacts by the
// layout hash and the view options.
//
// [cache] - Cache interface with FileCache (CLI), RedisCache (shared server
// deployments) and NullCache (disabled).
//
// [observability] - Hook interfaces for metrics; see internal/metrics for the
// Prometheus implementation.
//
// [errors] - Coded errors mapped to HTTP status codes by the server.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/layout/...      # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/dayview/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/dayview/pkg/render
// [render/day]: https://pkg.go.dev/github.com/matzehuels/dayview/pkg/render/day
// [render/axis]: https://pkg.go.dev/github.com/matzehuels/dayview/pkg/render/axis
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/dayview/pkg/render/sink
// [io]: https://pkg.go.dev/github.com/matzehuels/dayview/pkg/io
// [calendar]: https://pkg.go.dev/github.com/matzehuels/dayview/pkg/calendar
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/dayview/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/dayview/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/dayview/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/dayview/pkg/errors
package pkg
