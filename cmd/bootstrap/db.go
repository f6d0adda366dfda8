package bootstrap

import (
	"context"
	"fmt"
	"time"

	"qrcard/cmd/bootstrap/components"
	"qrcard/internal/infra/db"
	"qrcard/internal/infra/sqlitestore"
	"qrcard/internal/pkg/config"

	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewStore,
	),
)

func NewStore(lc fx.Lifecycle, cfg config.Config) (*components.Store, error) {
	store, cleanup, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return store, nil
}

// OpenStore connects to the backend named by STORE_DRIVER. The SQLite file
// gets its schema on open; Postgres is migrated separately.
func OpenStore(cfg config.Config) (*components.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		sqlDB, cleanup, err := sqlitestore.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sqlitestore.Migrate(ctx, sqlDB); err != nil {
			cleanup()
			return nil, nil, err
		}
		return &components.Store{Driver: cfg.Store.Driver, SQLite: sqlDB}, cleanup, nil
	case config.StoreDriverPostgres:
		pool, cleanup, err := db.Connect(cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return &components.Store{Driver: cfg.Store.Driver, Postgres: pool}, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
