package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/upgradetree/pkg/economy"
	"github.com/matzehuels/upgradetree/pkg/engine"
	"github.com/matzehuels/upgradetree/pkg/errors"
	"github.com/matzehuels/upgradetree/pkg/pipeline"
	"github.com/matzehuels/upgradetree/pkg/upgrade"
)

// playCommand creates the play command for the interactive upgrade panel.
func (c *CLI) playCommand() *cobra.Command {
	var (
		slot  string
		fresh bool
		flags layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "play [defs.toml]",
		Short: "Browse and buy upgrades interactively",
		Long: `Open the upgrade tree in an interactive terminal panel.

Arrow keys (or h/j/k/l) move the cursor, enter buys the selected upgrade,
g earns the gold of one defeated duck, r rebuilds the tree, s saves and q
quits. With --slot the game is loaded from and saved to the configured
store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, _, err := c.loadCatalog(args)
			if err != nil {
				return err
			}
			opts := c.pipelineOptions(cmd, flags, c.catalogPath(args))
			opts.Logger = nil
			if err := opts.ValidateForLayout(); err != nil {
				return err
			}
			return c.runPlay(cmd.Context(), defs, opts, slot, fresh)
		},
	}

	cmd.Flags().StringVar(&slot, "slot", "", "save slot to load and save")
	cmd.Flags().BoolVar(&fresh, "new", false, "ignore an existing save in the slot")
	flags.register(cmd)

	return cmd
}

// runPlay runs the panel until the user quits. opts should carry a discarding
// logger since the panel owns the terminal. A save in slot replaces the
// purchases and gold given in opts.
func (c *CLI) runPlay(ctx context.Context, defs []upgrade.Def, opts pipeline.Options, slot string, fresh bool) error {
	econ, err := pipeline.Economy(defs, opts)
	if err != nil {
		return err
	}

	var save func() error
	if slot != "" {
		if err := errors.ValidateSlotName(slot); err != nil {
			return err
		}
		store, err := c.newStore(ctx)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		if !fresh {
			if err := restoreSlot(ctx, store, econ, slot); err != nil {
				return err
			}
		}
		save = func() error {
			snap, err := econ.Save(slot)
			if err != nil {
				return err
			}
			return store.Save(ctx, snap)
		}
	}

	panel := engine.NewPanel(engine.New(opts.EngineOptions()), econ, econ.Purchase)
	model := NewPanelModel(panel, econ, defs, save)

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run panel: %w", err)
	}

	m := final.(PanelModel)
	printSuccess("Left with %d gold, %d/%d upgrades unlocked", m.Balance(), len(econ.Purchased()), len(defs))
	if slot != "" {
		printDetail("Slot: %s (press s in the panel to save)", slot)
	}
	return nil
}

// restoreSlot loads slot into econ. A missing slot starts a new game.
func restoreSlot(ctx context.Context, store economy.Store, econ *economy.Economy, slot string) error {
	snap, err := store.Load(ctx, slot)
	if errors.Is(err, errors.ErrCodeNotFound) {
		printInfo("New game in slot %s", slot)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load slot %s: %w", slot, err)
	}
	if err := econ.Restore(snap); err != nil {
		return err
	}
	printInfo("Loaded slot %s (%d gold, %d upgrades)", slot, snap.Gold, len(snap.Purchased))
	return nil
}
