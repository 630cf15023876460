package errors

import (
	"strings"
	"unicode"
)

const (
	maxIDLength    = 256
	maxTitleLength = 1024
)

// ValidateEventID validates an event identifier. IDs end up in HTML id
// attributes and cache keys, so whitespace and control characters are
// rejected. An empty ID is valid; importers assign one.
func ValidateEventID(id string) error {
	if id == "" {
		return nil
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidEvent, "event id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidEvent, "event id %q contains whitespace or control characters", id)
		}
	}
	return nil
}

// ValidateTitle validates an event title.
func ValidateTitle(title string) error {
	if len(title) > maxTitleLength {
		return New(ErrCodeInvalidEvent, "event title too long (max %d characters)", maxTitleLength)
	}
	if strings.ContainsRune(title, '\x00') {
		return New(ErrCodeInvalidEvent, "event title contains a null byte")
	}
	return nil
}

// ValidateFormatName checks that a format name is a bare lowercase word.
// Callers still check the name against the formats they support.
func ValidateFormatName(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	for _, r := range format {
		if r < 'a' || r > 'z' {
			return New(ErrCodeInvalidFormat, "invalid format: %q", format)
		}
	}
	return nil
}
