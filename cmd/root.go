package cmd

import (
	"fmt"
	"os"

	"github.com/ariebrainware/docflow-schedule/config"
	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "docflow",
	Short: "Scheduling backend for medical practices",
	Long: `docflow serves the scheduling API used by doctors to manage their
patients, appointments, medical records and notifications.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newPurgeSecurityLogsCommand())
}

// openDatabase loads the configuration and connects to the configured
// database.
func openDatabase() (*config.Config, zerolog.Logger, *gorm.DB, error) {
	cfg := config.LoadConfig()
	logger := config.NewLogger(cfg)
	db, err := config.ConnectDatabase()
	if err != nil {
		return nil, logger, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, logger, db, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
