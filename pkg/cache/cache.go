// Package cache stores computed layouts and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: caching disabled
//
// All backends implement [Cache]. Entries carry a TTL; expired entries read
// as misses.
//
// # Keys
//
// A [Keyer] derives keys from content hashes. A layout depends only on the
// events, so [Keyer.LayoutKey] takes the hash of the event list. An artifact
// depends on the layout, the view options and the format, all of which feed
// [Keyer.ArtifactKey]. [ScopedKeyer] prefixes every key, e.g. per tenant.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(eventsHash string) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds everything besides the layout that changes an artifact.
type ArtifactKeyOpts struct {
	Format       string  `json:"format"`
	EndOfDay     float64 `json:"end_of_day"`
	Height       float64 `json:"height"`
	Width        float64 `json:"width"`
	TickInterval int     `json:"tick_interval"`
	Title        string  `json:"title,omitempty"`
	Columns      int     `json:"columns,omitempty"`
}

// keyVersion is bumped when the cached encodings change.
const keyVersion = "v1"

// DefaultKeyer derives content-addressed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns the key for the layout of an event list.
func (DefaultKeyer) LayoutKey(eventsHash string) string {
	return hashKey("layout", keyVersion, eventsHash)
}

// ArtifactKey returns the key for one rendered artifact.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", keyVersion, layoutHash, opts)
}
