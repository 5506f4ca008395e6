// Package config loads coordinator configuration from defaults, an optional
// YAML file, and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config captures the runtime settings of the coordinator service.
type Config struct {
	// HTTPPort is the port the API server listens on.
	HTTPPort int `koanf:"http_port"`

	// SQLiteDSN locates the coordinator's SQLite database.
	SQLiteDSN string `koanf:"sqlite_dsn"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// HoldTTL bounds how long a tentative hold blocks a calendar before the
	// sweeper expires it.
	HoldTTL time.Duration `koanf:"hold_ttl"`

	// SweepInterval is the period between hold expiry sweeps.
	SweepInterval time.Duration `koanf:"sweep_interval"`

	// MaxCandidates caps the number of slot proposals per session.
	MaxCandidates int `koanf:"max_candidates"`

	// StepMinutes sets the slot scan granularity of the greedy solver.
	StepMinutes int `koanf:"step_minutes"`

	// NotifyBuffer bounds the in-memory notification queue.
	NotifyBuffer int `koanf:"notify_buffer"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		HTTPPort:      8080,
		SQLiteDSN:     "file:coordinator.db?_pragma=foreign_keys(1)",
		LogLevel:      "info",
		HoldTTL:       4 * time.Hour,
		SweepInterval: time.Minute,
		MaxCandidates: 5,
		StepMinutes:   30,
		NotifyBuffer:  1024,
	}
}

// Load builds a Config by layering defaults, an optional YAML file named by
// COORDINATOR_CONFIG, and COORDINATOR_-prefixed environment variables.
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("COORDINATOR_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	// COORDINATOR_HOLD_TTL maps to hold_ttl; underscores in key names are
	// preserved to match the koanf tags.
	envProvider := env.Provider("COORDINATOR_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "coordinator_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	invalid := make([]string, 0, 2)

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		invalid = append(invalid, "http_port")
	}
	if c.SQLiteDSN == "" {
		invalid = append(invalid, "sqlite_dsn")
	}
	if c.HoldTTL <= 0 {
		invalid = append(invalid, "hold_ttl")
	}
	if c.SweepInterval <= 0 {
		invalid = append(invalid, "sweep_interval")
	}
	if c.MaxCandidates <= 0 {
		invalid = append(invalid, "max_candidates")
	}
	if c.StepMinutes <= 0 {
		invalid = append(invalid, "step_minutes")
	}
	if c.NotifyBuffer <= 0 {
		invalid = append(invalid, "notify_buffer")
	}

	if len(invalid) > 0 {
		return fmt.Errorf("config: invalid values for %s", strings.Join(invalid, ", "))
	}
	return nil
}
