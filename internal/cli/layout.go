package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/dayview/pkg/io"
	"github.com/matzehuels/dayview/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   viewFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout <events>",
		Short: "Compute the column layout of a day of events",
		Long: `Compute the column layout of a day of events.

The input is a JSON, YAML, TOML or iCalendar file, or "-" for stdin. The
result is written as <input>.layout.json with the placed events and the view
options, ready for 'dayview render'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(args[0], flags)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, stdout for stdin)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout loads the events, lays them out and writes the layout document.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Stdin = os.Stdin
	events, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Laying out %s...", plural(len(events), "event")))
	spinner.Start()
	placed, cacheHit, err := runner.LayoutWithCacheInfo(ctx, events, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	opts.SetLayoutDefaults()
	doc := pkgio.LayoutDocument{
		Title:   opts.Title,
		Options: opts.RenderOptions(),
		Events:  placed,
	}

	outputPath := output
	if outputPath == "" && opts.Input != pipeline.StdinInput {
		outputPath = layoutPath(opts.Input)
	}
	if outputPath == "" || outputPath == "-" {
		return pkgio.WriteLayout(stdout, doc)
	}
	if err := pkgio.ExportLayout(outputPath, doc); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(placed), pipeline.GroupCount(placed), cacheHit)
	printNewline()
	printNextStep("Render", "dayview render "+outputPath)

	return nil
}

// layoutPath derives the layout file name for an events file.
func layoutPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + pkgio.LayoutExt
}
