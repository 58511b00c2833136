package main

import (
	"fmt"

	"guess-who/internal/config"
	"guess-who/internal/db"
	"guess-who/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var envFile, filePath string

	cmd := &cobra.Command{
		Use:           "load-presets",
		Short:         "Seed presets from a csv of preset,name,image_url rows.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			cfg := config.Load()
			logger.InitLogger(cfg.LogLevel)
			if cfg.DatabaseURL == "" {
				zap.L().Fatal("DATABASE_URL is not set")
			}

			conn, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseURL, db.Pool{MaxOpenConns: 2})
			if err != nil {
				return fmt.Errorf("database connection failed: %w", err)
			}
			if err := db.Migrate(conn); err != nil {
				return fmt.Errorf("database migration failed: %w", err)
			}
			created, err := db.LoadPresetLibrary(conn, filePath)
			if err != nil {
				return fmt.Errorf("failed to load presets: %w", err)
			}
			zap.L().Info("presets loaded", zap.Int("created", created), zap.String("file", filePath))
			return nil
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load")
	cmd.Flags().StringVar(&filePath, "file", "presets.csv", "path to presets csv")

	cobra.CheckErr(cmd.Execute())
}
