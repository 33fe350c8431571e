package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/learnhub-backend/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		svc, err := app.OpenDB(log, app.LoadConfig(log), true)
		if err != nil {
			log.Error("migration failed", "error", err)
			return err
		}
		log.Info("migration complete")
		return svc.Close()
	},
}
