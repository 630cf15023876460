package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/dayview/pkg/errors"
	"github.com/matzehuels/dayview/pkg/layout"
	"github.com/matzehuels/dayview/pkg/render"
)

// LayoutKind marks a JSON document as a stored layout.
const LayoutKind = "dayview-layout"

// LayoutExt is the file suffix used for stored layouts.
const LayoutExt = ".layout.json"

// LayoutDocument is a computed layout with the options it was made for.
type LayoutDocument struct {
	Kind    string          `json:"kind"`
	Title   string          `json:"title,omitempty"`
	Options render.Options  `json:"options"`
	Events  []layout.Placed `json:"events"`
}

// IsLayoutPath reports whether path names a stored layout.
func IsLayoutPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), LayoutExt)
}

// WriteLayout encodes doc as indented JSON.
func WriteLayout(w io.Writer, doc LayoutDocument) error {
	doc.Kind = LayoutKind
	if doc.Events == nil {
		doc.Events = []layout.Placed{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalLayout is [WriteLayout] into a byte slice.
func MarshalLayout(doc LayoutDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLayout(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadLayout decodes a stored layout and checks its placement values.
func ReadLayout(r io.Reader) (LayoutDocument, error) {
	var doc LayoutDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return doc, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout")
	}
	if doc.Kind != LayoutKind {
		return doc, errors.New(errors.ErrCodeInvalidInput, "not a layout document (kind %q)", doc.Kind)
	}
	doc.Options = doc.Options.WithDefaults()
	if err := doc.Options.Validate(); err != nil {
		return doc, err
	}
	for i, p := range doc.Events {
		if p.Width <= 0 || p.Width > 1 || p.Left < 0 || p.Left+p.Width > 1+1e-9 {
			return doc, errors.New(errors.ErrCodeInvalidEvent, "event %d: placement left=%v width=%v out of range", i, p.Left, p.Width)
		}
	}
	return doc, nil
}

// UnmarshalLayout is [ReadLayout] from a byte slice.
func UnmarshalLayout(data []byte) (LayoutDocument, error) {
	return ReadLayout(bytes.NewReader(data))
}

// ExportLayout writes doc to the file at path.
func ExportLayout(path string, doc LayoutDocument) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteLayout(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportLayout reads a stored layout from path.
func ImportLayout(path string) (LayoutDocument, error) {
	f, err := openFile(path)
	if err != nil {
		return LayoutDocument{}, err
	}
	defer f.Close()

	doc, err := ReadLayout(f)
	if err != nil {
		return doc, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
