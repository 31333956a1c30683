package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/parkgolf/config"
	"github.com/padraicbc/parkgolf/kv"
	"github.com/padraicbc/parkgolf/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(ctx context.Context, cfg *config.Config) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return db, nil
}

// CreateTables creates all tables used by the key-value store.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.KVEntry)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	return nil
}

// OpenStore connects the backend selected by cfg.StoreBackend and returns the
// store together with a function releasing its connection.
func OpenStore(ctx context.Context, cfg *config.Config) (kv.Store, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		bdb, err := Setup(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := CreateTables(ctx, bdb); err != nil {
			_ = bdb.Close()
			return nil, nil, err
		}
		return kv.NewBunStore(bdb), bdb.Close, nil

	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return kv.NewRedisStore(client, cfg.RedisPrefix), client.Close, nil

	case config.BackendMemory:
		return kv.NewMemoryStore(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
