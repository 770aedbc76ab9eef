package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Keed0303/ecommerce-starter-app/internal/config"
)

var dumpTOML bool

func init() { //nolint: gochecknoinits
	configCmd.Flags().BoolVar(&dumpTOML, "toml", false, "Print TOML instead of JSON")

	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration with secrets masked",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		var err error

		cfg, err = config.ReadConfig(configPath)

		return err
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		dump := config.DumpConfigJSON
		if dumpTOML {
			dump = config.DumpConfig
		}

		out, err := dump(&cfg)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), out)

		return err
	},
}
