package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process settings read from the environment.
type Config struct {
	Addr                 string
	ServiceName          string
	TelemetryEnabled     bool
	SessionIdleTimeout   time.Duration
	SessionSweepInterval time.Duration
	MaxPlotSamples       int
	MaxProgramTokens     int
	MaxBodyBytes         int64
	PlotVariable         string
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		Addr:                 ":8080",
		ServiceName:          "calculator-brain",
		TelemetryEnabled:     true,
		SessionIdleTimeout:   30 * time.Minute,
		SessionSweepInterval: time.Minute,
		MaxPlotSamples:       2000,
		MaxProgramTokens:     10000,
		MaxBodyBytes:         1 << 20,
		PlotVariable:         "M",
	}
}

// LoadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func LoadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// Load reads .env and the process environment on top of Default.
func Load() (Config, error) {
	if err := LoadDotEnv(); err != nil {
		return Config{}, err
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, which has the signature of
// os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("CALC_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("OTEL_SERVICE_NAME"); ok && v != "" {
		cfg.ServiceName = v
	}
	if v, ok := lookup("CALC_PLOT_VARIABLE"); ok && v != "" {
		cfg.PlotVariable = v
	}

	if v, ok := lookup("CALC_TELEMETRY"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("CALC_TELEMETRY: %w", err)
		}
		cfg.TelemetryEnabled = b
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"CALC_SESSION_IDLE_TIMEOUT", &cfg.SessionIdleTimeout},
		{"CALC_SESSION_SWEEP_INTERVAL", &cfg.SessionSweepInterval},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", d.key, err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("%s: must be positive, got %s", d.key, v)
		}
		*d.dst = parsed
	}

	limits := []struct {
		key string
		min int64
		set func(int64)
	}{
		{"CALC_MAX_PLOT_SAMPLES", 2, func(n int64) { cfg.MaxPlotSamples = int(n) }},
		{"CALC_MAX_PROGRAM_TOKENS", 1, func(n int64) { cfg.MaxProgramTokens = int(n) }},
		{"CALC_MAX_BODY_BYTES", 1, func(n int64) { cfg.MaxBodyBytes = n }},
	}
	for _, l := range limits {
		v, ok := lookup(l.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", l.key, err)
		}
		if n < l.min {
			return Config{}, fmt.Errorf("%s: must be at least %d, got %d", l.key, l.min, n)
		}
		l.set(n)
	}

	return cfg, nil
}
