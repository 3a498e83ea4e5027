package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"talentai/internal/audit"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply audit_logs migrations to a SQL audit store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		err := audit.Migrate(cmd.Context(), cfg.AuditStoreURL)
		switch {
		case errors.Is(err, audit.ErrNoMigrations):
			fmt.Fprintln(cmd.OutOrStdout(), "audit store has no schema; nothing to migrate")
			return nil
		case err != nil:
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "audit migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
