// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/Keed0303/ecommerce-starter-app/internal/config"
	"github.com/Keed0303/ecommerce-starter-app/internal/logger"
)

var (
	configPath string // directory holding main.toml

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "ecommerce-admin",
		Short: "ecommerce-admin is the administration panel of the ecommerce starter app",
		Long: `ecommerce-admin is the administration panel of the ecommerce starter app.
It manages products, the category tree, users and the roles and permissions
that decide what every user may see and do.`,
		Args:         cobra.OnlyValidArgs,
		SilenceUsage: true,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Directory of main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config and initializes the global logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}
