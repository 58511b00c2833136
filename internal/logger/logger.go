package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// InitLogger replaces the global zap logger with one at the given level.
func InitLogger(logLevel string) {
	cfg := zap.NewDevelopmentConfig()

	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "debug":
		cfg.Level.SetLevel(zap.DebugLevel)
	case "warn":
		cfg.Level.SetLevel(zap.WarnLevel)
	case "error":
		cfg.Level.SetLevel(zap.ErrorLevel)
	default:
		cfg.Level.SetLevel(zap.InfoLevel)
	}

	lgr, err := cfg.Build()
	if err != nil {
		panic(fmt.Errorf("build logger: %w", err))
	}

	zap.ReplaceGlobals(lgr)
}
