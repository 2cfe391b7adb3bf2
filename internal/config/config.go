// Package config handles loading and validation of shedwatch.yaml project
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kvanzyl/shedwatch/pkg/types"
)

// Load reads and parses shedwatch.yaml from the given directory.
func Load(dir string) (*types.Config, error) {
	path := filepath.Join(dir, "shedwatch.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg types.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func validate(cfg *types.Config) error {
	switch cfg.Provider {
	case "":
		return fmt.Errorf("provider is required")
	case "postgres":
		if cfg.Postgres == nil || cfg.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required when provider is postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	if cfg.Feed.URL == "" {
		return fmt.Errorf("feed.url is required")
	}
	if _, err := FeedInterval(cfg); err != nil {
		return err
	}
	if _, err := FeedTimeout(cfg); err != nil {
		return err
	}

	if cfg.Redis != nil && cfg.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is configured")
	}
	return nil
}

// FeedInterval returns the reconcile poll period, defaulting to one hour.
func FeedInterval(cfg *types.Config) (time.Duration, error) {
	if cfg.Feed.Interval == "" {
		return time.Hour, nil
	}
	d, err := time.ParseDuration(cfg.Feed.Interval)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("feed.interval %q is not a positive duration", cfg.Feed.Interval)
	}
	return d, nil
}

// FeedTimeout returns the per-fetch timeout, defaulting to 30 seconds.
func FeedTimeout(cfg *types.Config) (time.Duration, error) {
	if cfg.Feed.Timeout == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(cfg.Feed.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("feed.timeout %q is not a positive duration", cfg.Feed.Timeout)
	}
	return d, nil
}
