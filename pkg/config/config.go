// Package config loads upgradetree settings from a TOML file.
//
// Every setting has a default, so a missing file is not an error. Values
// read from the file replace the defaults field by field; command-line flags
// are applied on top by the caller.
//
//	[layout]
//	layer_spacing = 64
//	node_spacing = 52
//	passes = 4
//	tie_break = "id"
//
//	[economy]
//	starting_gold = 0
//	catalog = "upgrades.toml"
//
//	[cache]
//	backend = "file"
//	ttl = "24h"
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/upgradetree/pkg/errors"
	"github.com/matzehuels/upgradetree/pkg/layout"
	"github.com/matzehuels/upgradetree/pkg/ordering"
)

// AppName names the configuration, cache and data directories.
const AppName = "upgradetree"

// Config is the complete configuration.
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	Economy EconomyConfig `toml:"economy"`
	Cache   CacheConfig   `toml:"cache"`
	Store   StoreConfig   `toml:"store"`
	Server  ServerConfig  `toml:"server"`
}

// LayoutConfig controls spacing and crossing reduction.
type LayoutConfig struct {
	LayerSpacing float64 `toml:"layer_spacing"`
	NodeSpacing  float64 `toml:"node_spacing"`
	Passes       int     `toml:"passes"`
	TieBreak     string  `toml:"tie_break"`
}

// EconomyConfig sets up a new game.
type EconomyConfig struct {
	StartingGold int    `toml:"starting_gold"`
	Catalog      string `toml:"catalog"` // upgrade definition file; empty uses the built-in catalog
}

// CacheConfig selects the layout cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"` // file, redis or none
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// StoreConfig selects where save slots live.
type StoreConfig struct {
	Backend       string `toml:"backend"` // file, redis or mongo
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string such as "90m" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration. Directories are resolved
// lazily by [Config.CacheDir] and [Config.StoreDir].
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			LayerSpacing: layout.DefaultLayerSpacing,
			NodeSpacing:  layout.DefaultNodeSpacing,
			Passes:       ordering.DefaultPasses,
			TieBreak:     ordering.TieBreakID.String(),
		},
		Cache: CacheConfig{
			Backend: "file",
			TTL:     Duration{24 * time.Hour},
		},
		Store: StoreConfig{
			Backend:       "file",
			MongoDatabase: "upgradetree",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads the file at path over the defaults. An empty path loads
// [DefaultPath] if it exists and returns the defaults otherwise. Unknown keys
// are rejected so that typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if cfg.Economy.Catalog != "" && !filepath.IsAbs(cfg.Economy.Catalog) {
		cfg.Economy.Catalog = filepath.Join(filepath.Dir(path), cfg.Economy.Catalog)
	}
	return cfg, cfg.Validate()
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	if c.Layout.LayerSpacing < 0 || c.Layout.NodeSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout spacing must not be negative")
	}
	if _, err := ordering.ParseTieBreak(c.Layout.TieBreak); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout.tie_break")
	}
	if c.Economy.StartingGold < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "economy.starting_gold must not be negative")
	}
	if c.Economy.Catalog != "" {
		if err := errors.ValidatePath(c.Economy.Catalog); err != nil {
			return fmt.Errorf("economy.catalog: %w", err)
		}
	}

	if !slices.Contains([]string{"file", "redis", "none"}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	switch c.Store.Backend {
	case "file":
	case "redis":
		if c.Store.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.redis_addr is required for the redis backend")
		}
	case "mongo":
		if err := errors.ValidateURI(c.Store.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return fmt.Errorf("store.mongo_uri: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "store.backend must be file, redis or mongo, got %q", c.Store.Backend)
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	return nil
}

// Spacing returns the layout spacing.
func (c Config) Spacing() layout.Spacing {
	return layout.Spacing{Layer: c.Layout.LayerSpacing, Node: c.Layout.NodeSpacing}
}

// TieBreak returns the parsed tie-break rule, falling back to ordering by ID.
func (c Config) TieBreak() ordering.TieBreak {
	tb, err := ordering.ParseTieBreak(c.Layout.TieBreak)
	if err != nil {
		return ordering.TieBreakID
	}
	return tb
}

// CacheDir returns the configured cache directory or the XDG default.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return CacheDir()
}

// StoreDir returns the configured save directory or the XDG default.
func (c Config) StoreDir() (string, error) {
	if c.Store.Dir != "" {
		return c.Store.Dir, nil
	}
	return DataDir()
}

// Write encodes c as TOML.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
