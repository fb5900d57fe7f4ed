package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/upgradetree/pkg/upgrade"
)

const formatTable = "table"

// catalogCommand creates the catalog command, which prints upgrade
// definitions as a table or exports them as TOML or JSON.
func (c *CLI) catalogCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "catalog [defs.toml]",
		Short: "List upgrade definitions",
		Long: `List upgrade definitions.

Without a file the built-in catalog is shown. Use --format toml or --format json
to export it as a starting point for your own definition file:

  upgradetree catalog --format toml > upgrades.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, _, err := c.loadCatalog(args)
			if err != nil {
				return err
			}
			return writeCatalog(os.Stdout, defs, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, toml, json")

	return cmd
}

// writeCatalog writes defs to w in the given format.
func writeCatalog(w io.Writer, defs []upgrade.Def, format string) error {
	if format == formatTable {
		_, err := fmt.Fprintln(w, catalogTable(defs))
		return err
	}
	f, err := upgrade.ParseFormat(format)
	if err != nil {
		return err
	}
	return upgrade.Write(w, defs, f)
}

// catalogTable renders defs as a table in definition order.
func catalogTable(defs []upgrade.Def) string {
	rows := make([][]string, 0, len(defs))
	for _, d := range defs {
		requires := strings.Join(d.Requires, ", ")
		if requires == "" {
			requires = "—"
		}
		rows = append(rows, []string{d.ID, d.DisplayName(), strconv.Itoa(d.Cost), requires, d.Effect.String()})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Cost", "Requires", "Effect").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Foreground(colorCyan)
			case 2:
				return base.Foreground(colorYellow).Align(lipgloss.Right)
			case 3:
				return base.Foreground(colorGray)
			}
			return base
		}).
		Render()
}
