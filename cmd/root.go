// Package cmd is the flowershop command line.
package cmd

import (
	"fmt"
	"os"

	"flowershop_backend/config"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var Version = "dev"

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flowershop",
		Short:         "Flower shop REST backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(seedCmd())

	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads config, builds the logger and opens the database.
func bootstrap() (*config.Config, zerolog.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	log := config.NewLogger(cfg)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, log, nil, err
	}
	return cfg, log, db, nil
}

func closeDB(db *gorm.DB, log zerolog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close database")
	}
}
