package storefront

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-core/pkg/config"
	"github.com/angelmondragon/storefront-core/pkg/db"
	"github.com/angelmondragon/storefront-core/pkg/enums"
	"github.com/angelmondragon/storefront-core/pkg/logger"
	"github.com/angelmondragon/storefront-core/pkg/migrate"
	"github.com/angelmondragon/storefront-core/pkg/redis"
	"github.com/angelmondragon/storefront-core/pkg/store"
)

// Backend is an opened persistent store plus the connections readiness
// checks should ping.
type Backend struct {
	Kind    enums.StoreBackend
	Store   store.Store
	Pingers map[string]store.Pinger
}

// OpenBackend opens the store selected by cfg.Store.Backend. For the sql
// backend it also applies migrations when auto-migrate is enabled.
func OpenBackend(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	if logg == nil {
		logg = logger.Nop()
	}
	kind := cfg.Store.Kind()
	ctx = logg.WithField(ctx, "store_backend", kind.String())

	switch kind {
	case enums.StoreBackendMemory:
		logg.Warn(ctx, "memory store selected; state is lost on restart")
		return &Backend{Kind: kind, Store: store.NewMemory()}, nil

	case enums.StoreBackendFile:
		st, err := store.NewFile(cfg.Store.FilePath)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		logg.Info(logg.WithField(ctx, "path", st.Path()), "file store ready")
		return &Backend{Kind: kind, Store: st}, nil

	case enums.StoreBackendRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return &Backend{
			Kind:    kind,
			Store:   client,
			Pingers: map[string]store.Pinger{"redis": client},
		}, nil

	case enums.StoreBackendSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("open sql store: %w", err)
		}
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("migrate sql store: %w", err)
		}
		kv, err := db.NewKVStore(client)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return &Backend{
			Kind:    kind,
			Store:   kv,
			Pingers: map[string]store.Pinger{"db": client},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}
