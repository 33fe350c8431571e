package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/learnhub-backend/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		skipMigrate, _ := cmd.Flags().GetBool("skip-migrate")
		a, err := app.New(ctx, log, !skipMigrate)
		if err != nil {
			log.Error("startup failed", "error", err)
			return err
		}
		defer a.Close()

		if err := a.Run(ctx); err != nil {
			log.Error("server stopped", "error", err)
			return err
		}
		log.Info("server shut down")
		return nil
	},
}

func init() {
	serveCmd.Flags().Bool("skip-migrate", false, "Do not run schema migration at startup")
}
