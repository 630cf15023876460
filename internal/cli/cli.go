// Package cli implements the dayview command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dayview/internal/config"
	"github.com/matzehuels/dayview/pkg/buildinfo"
	"github.com/matzehuels/dayview/pkg/cache"
	"github.com/matzehuels/dayview/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dayview"

	// dayLayout is the --day flag format.
	dayLayout = "2006-01-02"
)

// Process exit statuses returned by [ExitCode].
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		Config:     config.Default(),
		configPath: config.DefaultPath(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "dayview lays out a day of calendar events",
		Long: `dayview places overlapping calendar events side by side in columns, the way
a day view in a calendar app does, and renders the result as HTML, SVG, JSON,
terminal text or PNG.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", c.configPath, "config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.axisCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// ExitCode maps the error returned by the root command to a process exit
// status. A run stopped by a signal exits like a shell job killed by SIGINT.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitFailure
	}
}

// loadConfig reads .env and the config file into c.Config.
func (c *CLI) loadConfig() error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.Config.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, c.Config.Cache.Prefix)
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache opens the configured backend. An unreachable Redis falls back
// to no caching with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cc := c.Config.Cache
	switch cc.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		fc, err := cache.NewFileCache(cc.Dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, caching disabled", "dir", cc.Dir, "error", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// viewFlags holds the geometry flags shared by several commands.
type viewFlags struct {
	endOfDay     float64
	height       float64
	width        float64
	tickInterval int
	title        string
	day          string
	inputFormat  string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.endOfDay, "end-of-day", 0, "minutes covered by the view (default from config, 720)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "view height in pixels (default from config, 720)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "view width in pixels for svg, png and text")
	cmd.Flags().IntVar(&f.tickInterval, "tick-interval", 0, "minutes between axis labels (default 30)")
	cmd.Flags().StringVar(&f.title, "title", "", "heading for rendered output")
	cmd.Flags().StringVar(&f.day, "day", "", "calendar day for .ics input, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "input format when reading stdin or overriding the extension: json, yaml, toml, ics")
}

// options merges flags over the configured view defaults.
func (c *CLI) options(input string, f viewFlags) (pipeline.Options, error) {
	v := c.Config.View
	opts := pipeline.Options{
		Input:        input,
		InputFormat:  f.inputFormat,
		EndOfDay:     pick(f.endOfDay, v.EndOfDay),
		Height:       pick(f.height, v.Height),
		Width:        pick(f.width, v.Width),
		TickInterval: pick(f.tickInterval, v.TickInterval),
		Title:        pick(f.title, v.Title),
		Columns:      v.Columns,
		Browser:      v.Browser,
		Formats:      v.Formats,
		Logger:       c.Logger,
	}

	loc, err := c.Config.Location()
	if err != nil {
		return opts, err
	}
	if f.day == "" {
		opts.Day = time.Now().In(loc)
	} else {
		day, err := time.ParseInLocation(dayLayout, f.day, loc)
		if err != nil {
			return opts, fmt.Errorf("invalid --day %q: want YYYY-MM-DD", f.day)
		}
		opts.Day = day
	}
	return opts, nil
}

// pick returns flag unless it is the zero value.
func pick[T comparable](flag, fallback T) T {
	var zero T
	if flag != zero {
		return flag
	}
	return fallback
}

// parseFormats parses a comma-separated format string into a slice.
// Empty input keeps the defaults.
func parseFormats(s string, defaults []string) []string {
	if strings.TrimSpace(s) == "" {
		return defaults
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
