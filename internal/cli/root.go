// Package cli wires the red-crafter commands.
package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/hkeating27/Red-Crafter/internal/catalog"
	"github.com/hkeating27/Red-Crafter/internal/config"
	"github.com/hkeating27/Red-Crafter/internal/market"
)

// RootOptions holds the global flags shared by every command.
type RootOptions struct {
	ConfigPath string
	Format     string // "text" | "json"
}

// ValidFormats lists the allowed --format values.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the red-crafter root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "red-crafter",
		Short: "Red Crafter - crafting profitability from live market data",
		Long: "Red Crafter estimates crafting profitability for a game economy:\n" +
			"it resolves the cheapest way to obtain each item (craft vs. buy)\n" +
			"from live market listings and ranks recipes by profit after tax.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "configs/config.yaml", "config file path")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewCostCommand(opts))
	cmd.AddCommand(NewRankCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// environment is everything a command needs after setup: the loaded
// config, catalog and provider chain.
type environment struct {
	cfg      config.Config
	catalog  *catalog.Catalog
	provider market.Provider
	logger   *log.Logger
}

func setup(opts *RootOptions, prefix string) (*environment, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(cfg.RecipesPath)
	if err != nil {
		return nil, err
	}
	logger := log.New(os.Stderr, prefix, log.LstdFlags)
	return &environment{
		cfg:      cfg,
		catalog:  cat,
		provider: buildProvider(cfg),
		logger:   logger,
	}, nil
}

// buildProvider assembles the market-data provider chain: the HTTP
// client, optionally wrapped by a snapshot cache (in-process, or Redis
// when an address is configured).
func buildProvider(cfg config.Config) market.Provider {
	var p market.Provider = market.NewUniversalisClient(cfg.UniversalisBaseURL, cfg.HTTPTimeout())
	if ttl := cfg.CacheTTL(); ttl > 0 {
		if cfg.Cache.RedisAddr != "" {
			p = market.NewRedisCache(p, cfg.Cache.RedisAddr, ttl)
		} else {
			p = market.NewTTLCache(p, ttl)
		}
	}
	return p
}
