package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Keed0303/ecommerce-starter-app/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Migrate the database and write the permission catalogue, the Super Admin role and the admin user",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := daemon.Open(&cfg)
		if err != nil {
			return err
		}

		if err = daemon.Migrate(db); err != nil {
			return err
		}

		res, err := daemon.Seed(&cfg, db)
		if err != nil {
			return err
		}

		printSeeded(cmd.OutOrStdout(), res)

		return nil
	},
}

// printSeeded reports the admin account created by the seed. A generated password is
// only ever shown here, it does not reach the log.
func printSeeded(w io.Writer, res *daemon.SeedResult) {
	if res == nil || res.Admin == nil {
		_, _ = fmt.Fprintln(w, "seeded permissions and roles, users already exist")
		return
	}

	_, _ = fmt.Fprintf(w, "seeded permissions and roles, admin user %s created\n", res.Admin.Email)

	if res.GeneratedPassword != "" {
		_, _ = fmt.Fprintf(w, "generated password: %s\n", res.GeneratedPassword)
	}
}
