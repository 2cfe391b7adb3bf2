// Package commands implements the shedwatch CLI subcommands.
package commands

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kvanzyl/shedwatch/internal/fixtures"
	"github.com/kvanzyl/shedwatch/internal/provider"
	"github.com/kvanzyl/shedwatch/internal/provider/memory"
	"github.com/kvanzyl/shedwatch/internal/provider/postgres"
	"github.com/kvanzyl/shedwatch/internal/stagefeed"
	"github.com/kvanzyl/shedwatch/pkg/types"
)

// newProvider constructs the configured reference store. The memory
// provider starts empty unless dev mode seeds it.
func newProvider(cfg *types.Config, dev bool) (provider.Provider, error) {
	switch cfg.Provider {
	case "postgres":
		return postgres.New(cfg.Postgres.DSN), nil
	case "memory":
		store := memory.New()
		if dev {
			fixtures.SeedTshwane(store)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// newLocker builds the reconcile lock. Without Redis the reconciler runs
// unlocked, which is fine for a single replica.
func newLocker(cfg *types.Config) stagefeed.Locker {
	if cfg.Redis == nil {
		return stagefeed.NoopLocker{}
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return stagefeed.NewRedisLocker(client, cfg.Redis.KeyPrefix)
}
