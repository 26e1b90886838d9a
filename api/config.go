package api

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvLogLevel    = "FFIBRIDGE_LOG_LEVEL"
	EnvMaxBlobSize = "FFIBRIDGE_MAX_BLOB_SIZE"
)

// Config defines configuration for a bridge
type Config struct {
	// MaxBlobSize is the largest account-state blob accepted, in bytes
	MaxBlobSize uint64

	// LogLevel is the minimum level of diagnostics the bridge logs
	LogLevel slog.Level
}

// DefaultConfig returns a default configuration for a bridge
func DefaultConfig() Config {
	return Config{
		MaxBlobSize: 16 * 1024 * 1024, // 16MB
		LogLevel:    slog.LevelWarn,
	}
}

// ConfigFromEnv returns DefaultConfig overridden by the environment.
// Invalid values keep their defaults and are reported in the returned error.
func ConfigFromEnv() (Config, error) {
	return configFrom(os.LookupEnv)
}

func configFrom(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()
	var errs []error

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		level, err := ParseLogLevel(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
		} else {
			cfg.LogLevel = level
		}
	}

	if v, ok := lookup(EnvMaxBlobSize); ok && v != "" {
		size, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", EnvMaxBlobSize, err))
		case size == 0:
			errs = append(errs, fmt.Errorf("%s: must be positive", EnvMaxBlobSize))
		default:
			cfg.MaxBlobSize = size
		}
	}

	return cfg, errors.Join(errs...)
}

// ParseLogLevel parses one of debug, info, warn or error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
