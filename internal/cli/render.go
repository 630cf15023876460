package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/dayview/pkg/io"
	"github.com/matzehuels/dayview/pkg/pipeline"
	"github.com/matzehuels/dayview/pkg/render/sink"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      viewFlags
		formatsStr string
		output     string
		noCache    bool
		columns    int
		browser    string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "render <events|layout>",
		Short: "Render a day of events to HTML, SVG, JSON, text or PNG",
		Long: `Render a day of events.

The input is an events file (JSON, YAML, TOML, iCalendar or "-" for stdin)
or a layout produced by 'dayview layout'. A stored layout is rendered as is
and contributes its view options.

With a single format and no --output, text is printed to the terminal.
Otherwise one file per format is written next to the input, or under the
base path given by --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(args[0], flags)
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(formatsStr, opts.Formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.Columns = pick(columns, opts.Columns)
			opts.Browser = pick(browser, opts.Browser)
			opts.Timeout = timeout
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(sink.Formats(), ", ")+" (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&columns, "columns", 0, "terminal columns for text output")
	cmd.Flags().StringVar(&browser, "browser", "", "Chromium executable for png output")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "png capture timeout (default 30s)")

	return cmd
}

// runRender executes the pipeline and writes one artifact per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Stdin = os.Stdin
	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Rendering "+strings.Join(opts.Formats, ", ")+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %s", plural(len(result.Artifacts), "artifact")))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if len(opts.Formats) == 1 && output == "" && opts.Formats[0] == sink.FormatText {
		_, err := stdout.Write(result.Artifacts[sink.FormatText])
		return err
	}
	if output == "-" {
		if len(opts.Formats) != 1 {
			return fmt.Errorf("--output - needs exactly one format")
		}
		_, err := stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, opts.Input, output)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.EventCount, result.Stats.GroupCount, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// writeArtifacts writes each format to its own file and returns the paths
// in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		path := artifactPath(format, input, output, len(formats) == 1)
		if err := writeFile(path, artifacts[format]); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactPath picks the file for one format. A single format writes to
// output verbatim; several formats treat output as a base path.
func artifactPath(format, input, output string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + artifactExt(format)
}

// artifactExt names derived files; JSON views get ".view.json" so they never
// replace a JSON events file of the same base name.
func artifactExt(format string) string {
	if format == sink.FormatJSON {
		return ".view.json"
	}
	return "." + sink.Extension(format)
}

// basePath derives the base output path. Without output it strips the
// extension (and a .layout suffix) from input; stdin becomes "dayview".
func basePath(output, input string) string {
	if output == "" {
		if input == pipeline.StdinInput || input == "" {
			return appName
		}
		if pkgio.IsLayoutPath(input) {
			return input[:len(input)-len(pkgio.LayoutExt)]
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if strings.HasSuffix(output, ".view.json") {
		return strings.TrimSuffix(output, ".view.json")
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if sink.IsFormat(ext) || ext == sink.Extension(sink.FormatText) {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
