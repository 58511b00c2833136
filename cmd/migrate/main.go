package main

import (
	"errors"
	"fmt"
	"strings"

	"guess-who/internal/config"
	"guess-who/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var envFile, source string
	var steps int

	cmd := &cobra.Command{
		Use:           "migrate [up|down]",
		Short:         "Apply SQL migrations to DATABASE_URL.",
		Args:          cobra.MaximumNArgs(1),
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
			if !strings.HasPrefix(cfg.DatabaseURL, "postgres") {
				return errors.New("SQL migrations target postgres; other drivers use --auto-migrate on the server")
			}

			m, err := migrate.New(source, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("migration setup failed: %w", err)
			}
			defer m.Close()

			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			switch {
			case direction == "up" && steps > 0:
				err = m.Steps(steps)
			case direction == "up":
				err = m.Up()
			case direction == "down" && steps > 0:
				err = m.Steps(-steps)
			case direction == "down":
				err = m.Down()
			default:
				return fmt.Errorf("unknown direction %q", direction)
			}
			if err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("database migration failed: %w", err)
			}
			zap.L().Info("database migrations applied", zap.String("direction", direction))
			return nil
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load")
	cmd.Flags().StringVar(&source, "source", "file://db/migrations", "migrations source url")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to apply, 0 for all")

	cobra.CheckErr(cmd.Execute())
}
