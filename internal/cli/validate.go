package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/upgradetree/pkg/engine"
	"github.com/matzehuels/upgradetree/pkg/errors"
)

// validateCommand creates the validate command, which reports problems in a
// set of upgrade definitions without writing anything.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		strict bool
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "validate [defs.toml]",
		Short: "Check upgrade definitions for cycles and dangling prerequisites",
		Long: `Check upgrade definitions for cycles and dangling prerequisites.

Every problem the engine finds is listed. Cycles are errors: the upgrades on
them cannot be layered and are pinned to the bottom layer. Unknown
prerequisites, duplicate and invalid IDs are warnings.

With --strict the command fails when any error is found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, name, err := c.loadCatalog(args)
			if err != nil {
				return err
			}
			opts := c.pipelineOptions(cmd, flags, "")
			if err := opts.ValidateForLayout(); err != nil {
				return err
			}

			b := engine.New(opts.EngineOptions()).Build(defs)
			report := b.Report
			if report.Empty() {
				printSuccess("%s: %d upgrades in %d layers, no problems", name, b.Model.Len(), b.Layers())
				return nil
			}

			fmt.Println(diagnosticTable(report.Diagnostics))
			errs := report.Count(engine.CyclicDependency)
			warns := len(report.Diagnostics) - errs
			if errs > 0 {
				printError("%s: %d error(s), %d warning(s)", name, errs, warns)
			} else {
				printWarning("%s: %d warning(s)", name, warns)
			}

			if strict && report.HasErrors() {
				return errors.New(errors.ErrCodeInvalidInput, "%s has %d error(s)", name, errs)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when errors are found")
	flags.register(cmd)

	return cmd
}

// diagnosticTable renders diagnostics as a table.
func diagnosticTable(diags []engine.Diagnostic) string {
	rows := make([][]string, 0, len(diags))
	for _, d := range diags {
		rows = append(rows, []string{string(d.Severity), d.Kind.String(), d.Node, d.Message})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Severity", "Kind", "Upgrade", "Message").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 && diags[row].Severity == engine.SeverityError {
				return base.Foreground(colorRed)
			}
			if col == 0 {
				return base.Foreground(colorYellow)
			}
			return base
		}).
		Render()
}
