package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/upgradetree/pkg/buildinfo"
	"github.com/matzehuels/upgradetree/pkg/cache"
	"github.com/matzehuels/upgradetree/pkg/config"
	"github.com/matzehuels/upgradetree/pkg/economy"
	"github.com/matzehuels/upgradetree/pkg/pipeline"
	"github.com/matzehuels/upgradetree/pkg/upgrade"
)

// appName is the application name used for display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the configuration loaded for the running command.
func (c *CLI) Config() config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "upgradetree lays out and plays game upgrade trees",
		Long: `upgradetree arranges upgrade definitions into layers by prerequisite depth,
orders each layer to reduce crossing edges, and shows which upgrades are
locked, available or unlocked for a given purchase state.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/upgradetree/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	c.registerCompletions(root)

	return root
}

// Execute runs the CLI, logging to w.
func Execute(ctx context.Context, w io.Writer) error {
	return New(w, LogInfo).RootCommand().ExecuteContext(ctx)
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.TTL = c.cfg.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cfg.CacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cache.Options{
		Backend:   c.cfg.Cache.Backend,
		Dir:       dir,
		RedisAddr: c.cfg.Cache.RedisAddr,
	})
}

// newStore opens the configured save store.
func (c *CLI) newStore(ctx context.Context) (economy.Store, error) {
	dir, err := c.cfg.StoreDir()
	if err != nil {
		return nil, err
	}
	return economy.OpenStore(ctx, economy.StoreOptions{
		Backend:       c.cfg.Store.Backend,
		Dir:           dir,
		RedisAddr:     c.cfg.Store.RedisAddr,
		MongoURI:      c.cfg.Store.MongoURI,
		MongoDatabase: c.cfg.Store.MongoDatabase,
	})
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags holds the flags shared by every command that builds a layout.
// Zero values defer to the configuration file.
type layoutFlags struct {
	layerSpacing float64
	nodeSpacing  float64
	passes       int
	tieBreak     string
	purchased    []string
	gold         int
	noCache      bool
	refresh      bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.layerSpacing, "layer-spacing", 0, "distance between layers (default from config)")
	cmd.Flags().Float64Var(&f.nodeSpacing, "node-spacing", 0, "distance between nodes of a layer (default from config)")
	cmd.Flags().IntVar(&f.passes, "passes", 0, "crossing reduction passes (default from config)")
	cmd.Flags().StringVar(&f.tieBreak, "tie-break", "", "order of tied nodes: id, stable (default from config)")
	cmd.Flags().StringSliceVar(&f.purchased, "purchased", nil, "purchased upgrade IDs (comma-separated)")
	cmd.Flags().IntVar(&f.gold, "gold", 0, "gold balance (default: starting gold from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute the layout even if it is cached")
}

// pipelineOptions merges the configuration with the flags set on cmd.
func (c *CLI) pipelineOptions(cmd *cobra.Command, f layoutFlags, catalog string) pipeline.Options {
	opts := pipeline.Options{
		Catalog:      catalog,
		LayerSpacing: c.cfg.Layout.LayerSpacing,
		NodeSpacing:  c.cfg.Layout.NodeSpacing,
		Passes:       c.cfg.Layout.Passes,
		TieBreak:     c.cfg.Layout.TieBreak,
		Purchased:    f.purchased,
		Gold:         c.cfg.Economy.StartingGold,
		Refresh:      f.refresh,
		Logger:       c.Logger,
	}
	if cmd.Flags().Changed("layer-spacing") {
		opts.LayerSpacing = f.layerSpacing
	}
	if cmd.Flags().Changed("node-spacing") {
		opts.NodeSpacing = f.nodeSpacing
	}
	if cmd.Flags().Changed("passes") {
		opts.Passes = f.passes
	}
	if cmd.Flags().Changed("tie-break") {
		opts.TieBreak = f.tieBreak
	}
	if cmd.Flags().Changed("gold") {
		opts.Gold = f.gold
	}
	return opts
}

// catalogPath returns the definition file named on the command line, or the
// one from the configuration. Empty means the built-in catalog.
func (c *CLI) catalogPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return c.cfg.Economy.Catalog
}

// loadCatalog reads the definitions selected by args.
func (c *CLI) loadCatalog(args []string) ([]upgrade.Def, string, error) {
	path := c.catalogPath(args)
	defs, err := pipeline.LoadDefs(pipeline.Options{Catalog: path})
	if err != nil {
		return nil, path, err
	}
	if path == "" {
		path = "built-in catalog"
	}
	return defs, path, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// outputBase returns the path artifacts are written next to: output if set,
// else the catalog name without extension, else the app name.
func outputBase(output, input string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	if input != "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	return appName
}
