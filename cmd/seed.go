package cmd

import (
	"fmt"
	"time"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/spf13/cobra"
)

const defaultSeedPassword = "password123"

func newSeedCommand() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo doctors, patients and appointments",
		Long: `seed fills an empty database with demo data. Nothing is written
when users already exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, db, err := openDatabase()
			if err != nil {
				return err
			}
			if err := migrate(db); err != nil {
				return err
			}
			hash, err := util.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hash seed password: %w", err)
			}
			seeded, err := model.SeedDemoData(db, hash, model.DateOf(time.Now()))
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			if !seeded {
				logger.Info().Msg("users already exist, skipping seed")
				return nil
			}
			logger.Info().Msg("demo data seeded")
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", defaultSeedPassword, "password given to every demo doctor")
	return cmd
}
