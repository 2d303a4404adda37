package cmd

import (
	"flowershop_backend/config"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database schema",
		Long: `Migrate the database schema.

With --reset every table is dropped, the schema is recreated and the
seed data is inserted again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeDB(db, log)

			if reset {
				return config.ResetAndMigrate(db, log)
			}
			return config.Migrate(db, log)
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "drop all tables, migrate and seed")

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default users, categories and products",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeDB(db, log)

			return config.Seed(db, log)
		},
	}
}
