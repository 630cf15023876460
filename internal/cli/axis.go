package cli

import (
	"encoding/json"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dayview/pkg/render/axis"
)

// axisCommand prints the time labels of the view.
func (c *CLI) axisCommand() *cobra.Command {
	var (
		flags  viewFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "axis",
		Short: "Print the time axis labels and their offsets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options("", flags)
			if err != nil {
				return err
			}
			ro := opts.RenderOptions()
			if err := ro.Validate(); err != nil {
				return err
			}
			ticks := axis.Ticks(ro)

			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(ticks)
			}
			emit(axisTable(ticks))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print ticks as JSON")
	return cmd
}

// axisTable renders ticks as a bordered table.
func axisTable(ticks []axis.Tick) string {
	rows := make([][]string, len(ticks))
	for i, t := range ticks {
		rows[i] = []string{strconv.Itoa(t.Minutes), t.Time, t.Top}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Minutes", "Label", "Top").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1:
				return StyleHighlight
			default:
				return StyleValue
			}
		}).
		Render()
}
