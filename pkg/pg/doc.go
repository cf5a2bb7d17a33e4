// Package pg bootstraps the PostgreSQL storage of a tenant-aware service.
//
// It opens a pgx/v5 connection pool with retries, wraps the pool in a gorm
// handle the tenant package can install its isolation plugin on, applies the
// embedded goose migrations that create the tenants table, and exposes a
// readiness probe.
//
// # Usage
//
//	cfg, err := config.Load[pg.Config]()
//	if err != nil {
//		return err
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//		return err
//	}
//
//	db, err := pg.Open(pool, nil)
//	if err != nil {
//		return err
//	}
//
//	tcfg, err := tenant.NewBuilder().WithDB(db).WithoutTenantSchema()...Build()
//
// # Schema
//
// The tenants table carries a partial unique index on identifier restricted to
// rows with deleted = false, so an identifier becomes available again once its
// tenant is soft-deleted.
//
// # Error Handling
//
// Open enables gorm's error translation, so unique violations reach callers as
// gorm.ErrDuplicatedKey. IsDuplicateKeyError and IsForeignKeyViolationError
// classify raw *pgconn.PgError values for code that talks to pgx directly.
package pg
