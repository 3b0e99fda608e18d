// Package config holds process-wide defaults consulted by operation
// dispatch: the default device, the worker count for data-parallel kernels
// and the debug flag controlling allocator logging.
package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Config carries the resolved settings.
type Config struct {
	// Set via LOOM_DEVICE in the environment: "cpu" or "accelerator:<i>".
	DefaultDevice string
	// Set via LOOM_WORKERS in the environment; defaults to GOMAXPROCS.
	Workers int
	// Set via LOOM_DEBUG in the environment.
	Debug bool
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DefaultDevice: "cpu",
		Workers:       runtime.GOMAXPROCS(0),
		Debug:         false,
	}
}

// FromEnv resolves settings from the environment on top of the defaults.
// Malformed values fall back to the default rather than erroring.
func FromEnv() Config {
	cfg := Default()

	if v := strings.TrimSpace(os.Getenv("LOOM_DEVICE")); v != "" {
		cfg.DefaultDevice = v
	}
	if v := os.Getenv("LOOM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("LOOM_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}

	return cfg
}

// LogLevel maps the debug flag to a zerolog level.
func (c Config) LogLevel() zerolog.Level {
	if c.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
