package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dayview/pkg/pipeline"
	"github.com/matzehuels/dayview/pkg/render/sink"
)

// previewCommand creates the interactive terminal preview.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags   viewFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "preview <events>",
		Short: "Browse a day of events in the terminal",
		Long: `Browse a day of events in the terminal.

Shows the day grid next to the list of events. Use the arrow keys to select
an event and see its placement, pgup/pgdn to scroll, q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(args[0], flags)
			if err != nil {
				return err
			}
			return c.runPreview(cmd.Context(), opts, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Stdin = os.Stdin
	opts.Formats = []string{sink.FormatText}
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	m := NewPreviewModel(opts.Title, string(result.Artifacts[sink.FormatText]), result.Placed)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
