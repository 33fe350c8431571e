package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/learnhub-backend/internal/app"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

var rootCmd = &cobra.Command{
	Use:           "learnhub",
	Short:         "LearnHub e-learning backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file (overrides CONFIG_FILE)")
	rootCmd.PersistentFlags().String("env-file", "", "dotenv file to load (default .env when present)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func sources(cmd *cobra.Command) app.Sources {
	configFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	return app.Sources{EnvFile: envFile, ConfigFile: configFile}
}

func newLogger(cmd *cobra.Command) (*logger.Logger, error) {
	return app.NewLogger(sources(cmd))
}
