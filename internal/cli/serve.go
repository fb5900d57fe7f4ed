package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/upgradetree/internal/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		flags layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "serve [defs.toml]",
		Short: "Serve an upgrade panel over HTTP",
		Long: `Serve one game over HTTP.

The server lays out the catalog once and answers layout, render, purchase,
gold and save requests against a single economy. Rendered artifacts go
through the configured cache; saves go to the configured store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			defs, name, err := c.loadCatalog(args)
			if err != nil {
				return err
			}
			opts := c.pipelineOptions(cmd, flags, c.catalogPath(args))
			if err := opts.ValidateForLayout(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			store, err := c.newStore(ctx)
			if err != nil {
				c.Logger.Warn("save store unavailable, saving disabled", "error", err)
				store = nil
			} else {
				defer store.Close()
			}

			srv := server.New(server.Config{
				Addr:         addr,
				Catalog:      defs,
				StartingGold: opts.Gold,
				Engine:       opts.EngineOptions(),
				Runner:       runner,
				Store:        store,
				Logger:       loggerFromContext(ctx),
			})

			printKeyValue("Catalog", fmt.Sprintf("%s (%d upgrades)", name, len(defs)))
			printKeyValue("Address", addr)
			printKeyValue("Cache", c.cfg.Cache.Backend)
			printKeyValue("Store", c.cfg.Store.Backend)
			printNewline()

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	flags.register(cmd)

	return cmd
}
