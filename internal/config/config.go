// Package config reads game configuration from the environment. A .env
// file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible enemy spawns.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	Tick     time.Duration
	Battle   string // battle layout id
	EnemyAI  string // "wait" or "skirmish"
	LogLevel string
	LogFile  string

	Telemetry       bool
	HoneycombAPIKey string
	HoneycombSet    string // dataset

	ProjectileArc     float64
	ProjectileSeconds float64
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Tick:              33 * time.Millisecond,
		Battle:            "ravine",
		EnemyAI:           "wait",
		LogLevel:          "info",
		LogFile:           "gridtactics.log",
		HoneycombSet:      "gridtactics",
		ProjectileArc:     150,
		ProjectileSeconds: 1.0,
	}
}

// Load reads .env (if any) and then the process environment.
func Load() (Config, error) {
	// Not fatal: variables may be set directly.
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a configuration from a variable lookup, starting from
// Default. The returned error names the first invalid variable.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var err error

	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	parse := func(name string, fn func(string) error) {
		if err != nil {
			return
		}
		v, ok := lookup(name)
		if !ok || v == "" {
			return
		}
		if perr := fn(v); perr != nil {
			err = fmt.Errorf("config: invalid %s %q: %w", name, v, perr)
		}
	}

	parse("GRIDTACTICS_SEED", func(v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		cfg.Seed = n
		return err
	})
	parse("GRIDTACTICS_TICK_MS", func(v string) error {
		n, err := strconv.Atoi(v)
		if err == nil && n <= 0 {
			return fmt.Errorf("must be positive")
		}
		cfg.Tick = time.Duration(n) * time.Millisecond
		return err
	})
	parse("GRIDTACTICS_TELEMETRY", func(v string) error {
		b, err := strconv.ParseBool(v)
		cfg.Telemetry = b
		return err
	})
	parse("GRIDTACTICS_PROJECTILE_ARC", func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		cfg.ProjectileArc = f
		return err
	})
	parse("GRIDTACTICS_PROJECTILE_SECONDS", func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil && f <= 0 {
			return fmt.Errorf("must be positive")
		}
		cfg.ProjectileSeconds = f
		return err
	})
	parse("GRIDTACTICS_ENEMY_AI", func(v string) error {
		if v != "wait" && v != "skirmish" {
			return fmt.Errorf("want wait or skirmish")
		}
		cfg.EnemyAI = v
		return nil
	})
	if err != nil {
		return Config{}, err
	}

	str("GRIDTACTICS_BATTLE", &cfg.Battle)
	str("GRIDTACTICS_LOG_LEVEL", &cfg.LogLevel)
	str("GRIDTACTICS_LOG_FILE", &cfg.LogFile)
	str("HONEYCOMB_GRIDTACTICS_API_KEY", &cfg.HoneycombAPIKey)
	str("HONEYCOMB_GRIDTACTICS_DATASET", &cfg.HoneycombSet)
	return cfg, nil
}

// OTelEnv returns the OTEL_* variables that point the OTLP exporter at
// Honeycomb. Headers are only set when an API key is configured.
func (c Config) OTelEnv() map[string]string {
	env := map[string]string{
		"OTEL_EXPORTER_OTLP_ENDPOINT": "https://api.honeycomb.io",
	}
	if c.HoneycombAPIKey != "" {
		env["OTEL_EXPORTER_OTLP_HEADERS"] = fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", c.HoneycombAPIKey, c.HoneycombSet)
	}
	return env
}

// ApplyOTelEnv sets the variables from OTelEnv in the process environment.
func (c Config) ApplyOTelEnv() error {
	for k, v := range c.OTelEnv() {
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("config: set %s: %w", k, err)
		}
	}
	return nil
}
