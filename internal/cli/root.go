package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Version    string
}

// NewRootCommand creates the storefront command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{Version: version}

	cmd := &cobra.Command{
		Use:     "storefront",
		Short:   "Storefront product catalog and cart API",
		Long:    "Serves the storefront product catalog and shopping cart over HTTP and publishes CartCheckedOut events.",
		Version: version,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to a config file (yaml, json, toml or env)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

// load reads configuration and builds the root logger.
func (o *RootOptions) load() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	logger := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Environment: cfg.Environment,
	})
	return cfg, logger, nil
}
