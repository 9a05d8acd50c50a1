package cmd

import (
	"fmt"
	"time"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/spf13/cobra"
)

func newPurgeSecurityLogsCommand() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "purge-security-logs",
		Short: "Delete persisted security events past their retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			_, logger, db, err := openDatabase()
			if err != nil {
				return err
			}
			cutoff := time.Now().Add(-olderThan)
			n, err := model.PurgeSecurityLogs(db, cutoff)
			if err != nil {
				return fmt.Errorf("purge security logs: %w", err)
			}
			logger.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("security logs purged")
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 90*24*time.Hour, "delete events older than this")
	return cmd
}
