package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/upgradetree/pkg/graph"
	"github.com/matzehuels/upgradetree/pkg/pipeline"
)

// layoutCommand creates the layout command for computing upgrade tree layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [defs.toml]",
		Short: "Compute the layout of an upgrade tree",
		Long: `Compute the layout of an upgrade tree.

The layout command reads upgrade definitions (TOML or JSON; the built-in
catalog when no file is given), assigns layers, reduces crossings and places
every upgrade. The output is a layout.json file that can be rendered with
'visualize'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions(cmd, flags, c.catalogPath(args))
			return c.runLayout(cmd.Context(), opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <defs>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the definitions, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	defs, err := pipeline.LoadDefs(opts)
	if err != nil {
		return fmt.Errorf("load definitions: %w", err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %d upgrades...", len(defs)))
	spinner.Start()
	prog := newProgress(c.Logger)

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, defs, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Laid out %d upgrades", len(l.Nodes)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = outputBase("", opts.Catalog) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(l.Nodes), l.Layers, l.CrossingsAfter, cacheHit)
	printDiagnostics(l.Diagnostics)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}
