package main

import (
	"github.com/spf13/cobra"

	"github.com/PratikDhanave/edge-event-service/internal/store"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the events table and indexes, then exit",
	Long:  "Applies the schema for the configured DB_DRIVER. Safe to re-run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}

		st, err := store.Open(cmd.Context(), cfg.DBDriver, cfg.DSN())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
		logger.Info("events table ready", "db_driver", cfg.DBDriver)
		return nil
	},
}
