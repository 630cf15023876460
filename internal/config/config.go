// Package config loads dayview settings from a TOML file, an optional .env
// file and DAYVIEW_* environment variables, in increasing precedence.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/matzehuels/dayview/pkg/errors"
	"github.com/matzehuels/dayview/pkg/render"
	"github.com/matzehuels/dayview/pkg/render/sink"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Defaults.
const (
	DefaultListen = "127.0.0.1:8080"
	DefaultReload = "*/5 * * * *"
	FileName      = "config.toml"
	appName       = "dayview"
	envPrefix     = "DAYVIEW_"
)

// Config is the top-level configuration.
type Config struct {
	View   ViewConfig   `toml:"view"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// ViewConfig holds rendering defaults shared by the CLI and the server.
type ViewConfig struct {
	EndOfDay     float64  `toml:"end_of_day"`
	Height       float64  `toml:"height"`
	Width        float64  `toml:"width"`
	TickInterval int      `toml:"tick_interval"`
	Title        string   `toml:"title,omitempty"`
	Formats      []string `toml:"formats"`
	Columns      int      `toml:"columns,omitempty"`
	// Browser is a Chromium executable for PNG output; empty finds one on PATH.
	Browser string `toml:"browser,omitempty"`
}

// ServerConfig configures `dayview serve`.
type ServerConfig struct {
	Listen string `toml:"listen"`
	// Events is the file served at /day.
	Events string `toml:"events,omitempty"`
	// Reload is a standard 5-field cron schedule for re-reading Events.
	Reload string `toml:"reload"`
	// Timezone selects the day for ICS input; empty means local time.
	Timezone string `toml:"timezone,omitempty"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir,omitempty"`
	RedisAddr     string `toml:"redis_addr,omitempty"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db,omitempty"`
	Prefix        string `toml:"prefix,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	opts := render.DefaultOptions()
	return &Config{
		View: ViewConfig{
			EndOfDay:     opts.EndOfDay,
			Height:       opts.Height,
			Width:        opts.Width,
			TickInterval: opts.TickInterval,
			Formats:      []string{sink.FormatHTML},
		},
		Server: ServerConfig{
			Listen: DefaultListen,
			Reload: DefaultReload,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			Dir:     DefaultCacheDir(),
		},
	}
}

// Normalize fills zero values with defaults so partial files still work.
func (c *Config) Normalize() {
	def := Default()
	if c.View.EndOfDay == 0 {
		c.View.EndOfDay = def.View.EndOfDay
	}
	if c.View.Height == 0 {
		c.View.Height = def.View.Height
	}
	if c.View.Width == 0 {
		c.View.Width = def.View.Width
	}
	if c.View.TickInterval == 0 {
		c.View.TickInterval = def.View.TickInterval
	}
	if len(c.View.Formats) == 0 {
		c.View.Formats = def.View.Formats
	}
	if c.Server.Listen == "" {
		c.Server.Listen = def.Server.Listen
	}
	if c.Server.Reload == "" {
		c.Server.Reload = def.Server.Reload
	}
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = def.Cache.Backend
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = def.Cache.Dir
	}
}

// Validate checks values that Normalize cannot repair.
func (c *Config) Validate() error {
	if err := c.RenderOptions().Validate(); err != nil {
		return err
	}
	for _, f := range c.View.Formats {
		if !sink.IsFormat(f) {
			return errors.New(errors.ErrCodeInvalidConfig, "view.formats: unknown format %q", f)
		}
	}
	if _, err := cron.ParseStandard(c.Server.Reload); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "server.reload: invalid schedule %q", c.Server.Reload)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend: unknown backend %q", c.Cache.Backend)
	}
	return nil
}

// RenderOptions returns the view geometry.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		EndOfDay:     c.View.EndOfDay,
		Height:       c.View.Height,
		Width:        c.View.Width,
		TickInterval: c.View.TickInterval,
	}
}

// Location resolves Server.Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Server.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "server.timezone: unknown zone %q", c.Server.Timezone)
	}
	return loc, nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("."+appName, FileName)
	}
	return filepath.Join(dir, appName, FileName)
}

// DefaultCacheDir returns the per-user cache directory.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join("."+appName, "cache")
	}
	return filepath.Join(dir, appName)
}

// LoadEnv loads .env files into the process environment. Missing files are
// skipped; variables already set are kept.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", f)
		}
	}
	return nil
}

// Load reads path (a missing file yields the defaults), applies DAYVIEW_*
// overrides, normalizes and validates.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
		default:
			cfg = &Config{}
			if _, err := toml.Decode(string(data), cfg); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"LISTEN":         &c.Server.Listen,
		"EVENTS":         &c.Server.Events,
		"RELOAD":         &c.Server.Reload,
		"TIMEZONE":       &c.Server.Timezone,
		"TITLE":          &c.View.Title,
		"BROWSER":        &c.View.Browser,
		"CACHE":          &c.Cache.Backend,
		"CACHE_DIR":      &c.Cache.Dir,
		"REDIS_ADDR":     &c.Cache.RedisAddr,
		"REDIS_PASSWORD": &c.Cache.RedisPassword,
		"CACHE_PREFIX":   &c.Cache.Prefix,
	}
	for name, dst := range str {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}

	floats := map[string]*float64{
		"END_OF_DAY": &c.View.EndOfDay,
		"HEIGHT":     &c.View.Height,
		"WIDTH":      &c.View.Width,
	}
	for name, dst := range floats {
		if v, ok := lookup(envPrefix + name); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidConfig, "%s%s: not a number: %q", envPrefix, name, v)
			}
			*dst = f
		}
	}

	ints := map[string]*int{
		"TICK_INTERVAL": &c.View.TickInterval,
		"COLUMNS":       &c.View.Columns,
		"REDIS_DB":      &c.Cache.RedisDB,
	}
	for name, dst := range ints {
		if v, ok := lookup(envPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidConfig, "%s%s: not an integer: %q", envPrefix, name, v)
			}
			*dst = n
		}
	}

	if v, ok := lookup(envPrefix + "FORMATS"); ok {
		c.View.Formats = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Encode returns the TOML form of c.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes c to path atomically with 0600 permissions.
func (c *Config) Save(path string) error {
	c.Normalize()
	data, err := c.Encode()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".dayview-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
