package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingSecret = errors.New("missing required configuration")

type Config struct {
	Port     int
	LogLevel string

	DatabaseURL              string
	DatabaseDriver           string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int

	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool
	StoragePublicURL string

	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	PresetCacheSeconds int

	GatewayTimeoutSeconds int
	UploadConcurrency     int
	MaxImageBytes         int64

	CORSOrigins   []string
	PublicBaseURL string
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME_SECONDS", 300)
	v.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	v.SetDefault("STORAGE_ACCESS_KEY", "guess-who")
	v.SetDefault("STORAGE_BUCKET", "board-images")
	v.SetDefault("STORAGE_USE_SSL", false)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PRESET_CACHE_SECONDS", 30)
	v.SetDefault("GATEWAY_TIMEOUT_SECONDS", 10)
	v.SetDefault("UPLOAD_CONCURRENCY", 4)
	v.SetDefault("MAX_IMAGE_BYTES", 5<<20)
}

// Load reads the configuration from the environment.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	defaults(v)
	for _, key := range []string{
		"DATABASE_URL", "DATABASE_DRIVER", "STORAGE_SECRET_KEY", "STORAGE_PUBLIC_URL",
		"REDIS_ADDR", "REDIS_PASSWORD", "CORS_ORIGINS", "PUBLIC_BASE_URL",
	} {
		_ = v.BindEnv(key)
	}

	cfg := Config{
		Port:                     v.GetInt("PORT"),
		LogLevel:                 v.GetString("LOG_LEVEL"),
		DatabaseURL:              strings.TrimSpace(v.GetString("DATABASE_URL")),
		DatabaseDriver:           strings.TrimSpace(v.GetString("DATABASE_DRIVER")),
		DBMaxOpenConns:           positive(v.GetInt("DB_MAX_OPEN_CONNS"), 10),
		DBMaxIdleConns:           positive(v.GetInt("DB_MAX_IDLE_CONNS"), 10),
		DBConnMaxLifetimeSeconds: positive(v.GetInt("DB_CONN_MAX_LIFETIME_SECONDS"), 300),
		StorageEndpoint:          v.GetString("STORAGE_ENDPOINT"),
		StorageAccessKey:         v.GetString("STORAGE_ACCESS_KEY"),
		StorageSecretKey:         v.GetString("STORAGE_SECRET_KEY"),
		StorageBucket:            v.GetString("STORAGE_BUCKET"),
		StorageUseSSL:            v.GetBool("STORAGE_USE_SSL"),
		StoragePublicURL:         strings.TrimRight(v.GetString("STORAGE_PUBLIC_URL"), "/"),
		RedisAddr:                strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:            v.GetString("REDIS_PASSWORD"),
		RedisDB:                  v.GetInt("REDIS_DB"),
		PresetCacheSeconds:       positive(v.GetInt("PRESET_CACHE_SECONDS"), 30),
		GatewayTimeoutSeconds:    positive(v.GetInt("GATEWAY_TIMEOUT_SECONDS"), 10),
		UploadConcurrency:        positive(v.GetInt("UPLOAD_CONCURRENCY"), 4),
		MaxImageBytes:            v.GetInt64("MAX_IMAGE_BYTES"),
		CORSOrigins:              splitList(v.GetString("CORS_ORIGINS")),
		PublicBaseURL:            strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = 5 << 20
	}
	return cfg
}

// Validate reports every required secret that is unset.
func (c Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.StorageSecretKey == "" {
		missing = append(missing, "STORAGE_SECRET_KEY")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSecret, strings.Join(missing, ", "))
	}
	return nil
}

func (c Config) GatewayTimeout() time.Duration {
	return time.Duration(c.GatewayTimeoutSeconds) * time.Second
}

func (c Config) PresetCacheTTL() time.Duration {
	return time.Duration(c.PresetCacheSeconds) * time.Second
}

func (c Config) DBConnMaxLifetime() time.Duration {
	return time.Duration(c.DBConnMaxLifetimeSeconds) * time.Second
}

func positive(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
