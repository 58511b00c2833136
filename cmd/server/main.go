package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"guess-who/internal/cache"
	"guess-who/internal/config"
	"guess-who/internal/db"
	"guess-who/internal/logger"
	"guess-who/internal/presets"
	"guess-who/internal/server"
	"guess-who/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var envFile string
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:           "guess-who",
		Short:         "Serve the Guess Who board game.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			cfg := config.Load()
			logger.InitLogger(cfg.LogLevel)
			defer func() { _ = zap.L().Sync() }()

			if err := cfg.Validate(); err != nil {
				zap.L().Fatal("invalid configuration", zap.Error(err))
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, autoMigrate)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "create or update tables on startup")
	cmd.CompletionOptions.HiddenDefaultCmd = true

	cobra.CheckErr(cmd.Execute())
}

func serve(ctx context.Context, cfg config.Config, autoMigrate bool) error {
	conn, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseURL, db.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime(),
	})
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	if autoMigrate {
		if err := db.Migrate(conn); err != nil {
			return fmt.Errorf("database migration failed: %w", err)
		}
	}

	images, err := storage.NewImageStore(ctx, storage.Options{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		UseSSL:    cfg.StorageUseSSL,
		PublicURL: cfg.StoragePublicURL,
		MaxBytes:  cfg.MaxImageBytes,
	})
	if err != nil {
		return fmt.Errorf("image storage setup failed: %w", err)
	}

	var gateway presets.Gateway = presets.NewDBGateway(conn, images)
	redisClient, err := cache.NewRedisClient(ctx, cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	switch {
	case err != nil:
		zap.L().Warn("preset cache disabled", zap.Error(err))
	case redisClient != nil:
		defer redisClient.Close()
		gateway = presets.NewCachedGateway(gateway, cache.NewPresetList(redisClient, cfg.PresetCacheTTL()))
		zap.L().Info("preset cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	app := server.New(server.Deps{
		Config: cfg,
		DB:     conn,
		Presets: presets.NewService(gateway, presets.Options{
			Timeout:           cfg.GatewayTimeout(),
			UploadConcurrency: cfg.UploadConcurrency,
		}),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		zap.L().Info("guess-who server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	zap.L().Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
