package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/dayview/pkg/errors"
	"github.com/matzehuels/dayview/pkg/layout"
)

// Event document formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatICS  = "ics"
)

type document struct {
	Events []layout.Event `json:"events" yaml:"events" toml:"events"`
}

// record is an event as decoded from a document. Bounds are pointers so a
// missing start or end is told apart from zero.
type record struct {
	ID    string         `json:"id" yaml:"id" toml:"id"`
	Title string         `json:"title" yaml:"title" toml:"title"`
	Start *float64       `json:"start" yaml:"start" toml:"start"`
	End   *float64       `json:"end" yaml:"end" toml:"end"`
	Meta  map[string]any `json:"meta" yaml:"meta" toml:"meta"`
}

type inputDocument struct {
	Events []record `json:"events" yaml:"events" toml:"events"`
}

// toEvents rejects records without both bounds.
func toEvents(records []record) ([]layout.Event, error) {
	events := make([]layout.Event, len(records))
	for i, r := range records {
		switch {
		case r.Start == nil && r.End == nil:
			return nil, errors.New(errors.ErrCodeInvalidEvent, "event %d: missing start and end", i)
		case r.Start == nil:
			return nil, errors.New(errors.ErrCodeInvalidEvent, "event %d: missing start", i)
		case r.End == nil:
			return nil, errors.New(errors.ErrCodeInvalidEvent, "event %d: missing end", i)
		}
		events[i] = layout.Event{ID: r.ID, Title: r.Title, Start: *r.Start, End: *r.End, Meta: r.Meta}
	}
	return events, nil
}

// ReadOption configures event reading.
type ReadOption func(*readConfig)

type readConfig struct {
	day    time.Time
	keepID bool
}

// WithDay selects the day kept from iCalendar input. It defaults to today
// in the local time zone.
func WithDay(day time.Time) ReadOption { return func(c *readConfig) { c.day = day } }

// WithoutGeneratedIDs leaves missing event IDs empty.
func WithoutGeneratedIDs() ReadOption { return func(c *readConfig) { c.keepID = true } }

func newReadConfig(opts ...ReadOption) readConfig {
	c := readConfig{day: time.Now()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// FormatFromPath returns the event format implied by the file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".ics", ".ical":
		return FormatICS, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer event format from %q", path)
	}
}

// ReadEvents decodes events in format from r.
//
// The result is validated: every record needs both start and end, bounds
// must be finite and end no earlier than start, and IDs and titles must be
// printable. Events without an ID receive a
// UUID unless [WithoutGeneratedIDs] is set. ReadEvents does not close r.
func ReadEvents(r io.Reader, format string, opts ...ReadOption) ([]layout.Event, error) {
	cfg := newReadConfig(opts...)

	var (
		events []layout.Event
		err    error
	)
	switch format {
	case FormatJSON:
		events, err = decodeJSON(r)
	case FormatYAML:
		events, err = decodeYAML(r)
	case FormatTOML:
		events, err = decodeTOML(r)
	case FormatICS:
		events, err = ReadICS(r, cfg.day)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown event format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if !cfg.keepID {
		assignIDs(events)
	}
	if err := validate(events); err != nil {
		return nil, err
	}
	return events, nil
}

// ImportEvents reads the event file at path.
func ImportEvents(path string, opts ...ReadOption) ([]layout.Event, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return ImportEventsAs(path, format, opts...)
}

// ImportEventsAs reads the event file at path in an explicit format.
func ImportEventsAs(path, format string, opts ...ReadOption) ([]layout.Event, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	events, err := ReadEvents(f, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

// WriteEvents encodes events in format (json, yaml or toml) to w.
func WriteEvents(w io.Writer, events []layout.Event, format string) error {
	doc := document{Events: events}
	if doc.Events == nil {
		doc.Events = []layout.Event{}
	}

	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(doc)
		if err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(doc)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "cannot write events as %q", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode events")
	}
	return nil
}

func decodeJSON(r io.Reader) ([]layout.Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read events")
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
		}
		return toEvents(records)
	}

	var doc inputDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
	}
	return toEvents(doc.Events)
}

func decodeYAML(r io.Reader) ([]layout.Event, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
	}

	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	if node.Kind == yaml.SequenceNode {
		var records []record
		if err := node.Decode(&records); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
		}
		return toEvents(records)
	}

	var doc inputDocument
	if err := node.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
	}
	return toEvents(doc.Events)
}

func decodeTOML(r io.Reader) ([]layout.Event, error) {
	var doc inputDocument
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
	}
	return toEvents(doc.Events)
}

func assignIDs(events []layout.Event) {
	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.NewString()
		}
	}
}

func validate(events []layout.Event) error {
	for i, e := range events {
		if err := errors.ValidateEventID(e.ID); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if err := errors.ValidateTitle(e.Title); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	if err := layout.Validate(events); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidEvent, err, "invalid event")
	}
	return nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	return f, nil
}
