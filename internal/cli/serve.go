package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dayview/internal/config"
	"github.com/matzehuels/dayview/internal/metrics"
	"github.com/matzehuels/dayview/internal/server"
)

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags   viewFlags
		listen  string
		reload  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [events]",
		Short: "Serve the layout API and a live day view over HTTP",
		Long: `Serve the layout API and a live day view over HTTP.

Endpoints:
  POST /api/layout   lay out a JSON array of events
  POST /api/render   lay out and render (?format=html|svg|json|text|png)
  GET  /api/axis     time axis ticks for the view options
  GET  /day          the watched events file, re-read on the reload schedule
  GET  /health       liveness and reload status
  GET  /metrics      Prometheus metrics

The events file defaults to server.events in the config file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events := c.Config.Server.Events
			if len(args) == 1 {
				events = args[0]
			}
			opts, err := c.options(events, flags)
			if err != nil {
				return err
			}
			loc, err := c.Config.Location()
			if err != nil {
				return err
			}
			cfg := server.Config{
				Listen:   pick(listen, c.Config.Server.Listen),
				Events:   events,
				Reload:   pick(reload, c.Config.Server.Reload),
				Location: loc,
				View:     opts,
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, "+config.DefaultListen+")")
	cmd.Flags().StringVar(&reload, "reload", "", "cron schedule for re-reading the events file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg server.Config, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	m := metrics.New(true)
	m.Install()
	cfg.Metrics = m.Handler()

	srv, err := server.New(cfg, runner, logger)
	if err != nil {
		return err
	}
	if cfg.Events != "" {
		logger.Info("watching events", "file", cfg.Events, "reload", cfg.Reload)
	}
	return srv.Start(ctx)
}
