package main

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dmitrymomot/tenantkit/pkg/config"
	"github.com/dmitrymomot/tenantkit/pkg/pg"
	"github.com/dmitrymomot/tenantkit/pkg/redis"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

type storage struct {
	db                 *gorm.DB
	manageTenantSchema bool
	checks             []func(context.Context) error
	closers            []func()
}

func (s *storage) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStorage connects the selected database. On Postgres the tenants table
// comes from the embedded goose migrations, so the tenancy layer does not
// manage it; on SQLite gorm creates everything.
func openStorage(ctx context.Context, cfg appConfig, log *slog.Logger) (*storage, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}

	switch cfg.Driver {
	case driverSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.SQLiteDSN), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return &storage{
			db:                 db,
			manageTenantSchema: true,
			checks:             []func(context.Context) error{sqlDB.PingContext},
			closers:            []func(){func() { _ = sqlDB.Close() }},
		}, nil

	case driverPostgres:
		pgCfg, err := config.Load[pg.Config]()
		if err != nil {
			return nil, fmt.Errorf("postgres config: %w", err)
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		db, err := pg.Open(pool, gormCfg)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
		log.InfoContext(ctx, "postgres connected")
		return &storage{
			db:      db,
			checks:  []func(context.Context) error{pg.Healthcheck(pool)},
			closers: []func(){pool.Close},
		}, nil

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Driver)
	}
}

// openCache selects where identifier lookups are cached.
func openCache(ctx context.Context, cfg appConfig, store *storage) (tenant.Cache, error) {
	switch cfg.Cache {
	case cacheMemory, "":
		return tenant.NewInMemoryCache(cfg.Tenant.CacheSize), nil
	case cacheNone:
		return tenant.NewNoOpCache(), nil
	case cacheRedis:
		redisCfg, err := config.Load[redis.Config]()
		if err != nil {
			return nil, fmt.Errorf("redis config: %w", err)
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		store.checks = append(store.checks, redis.Healthcheck(client))
		store.closers = append(store.closers, func() { _ = client.Close() })
		return tenant.NewRedisCache(client, redisCfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown TENANT_CACHE_BACKEND %q", cfg.Cache)
	}
}
