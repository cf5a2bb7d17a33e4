package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/tenantkit/pkg/clientip"
	"github.com/dmitrymomot/tenantkit/pkg/config"
	"github.com/dmitrymomot/tenantkit/pkg/httpserver"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/requestid"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load[appConfig]()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New(
		logger.WithConfig(cfg.Log),
		logger.WithAttr(logger.Component("tenantd")),
		logger.WithContextExtractors(tenant.LoggerExtractor(), requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	slog.SetDefault(log)

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close()

	cache, err := openCache(ctx, cfg, store)
	if err != nil {
		return err
	}

	router, err := newApp(ctx, store, cache, cfg.Tenant, log)
	if err != nil {
		return err
	}

	return httpserver.New(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, router)
}

// newApp wires the tenancy layer onto the opened storage and returns the HTTP handler.
func newApp(ctx context.Context, store *storage, cache tenant.Cache, env tenant.EnvConfig, log *slog.Logger) (http.Handler, error) {
	builder := tenant.NewBuilder().
		WithDB(store.db).
		WithModels(&Note{}).
		WithUserModel(&Member{}).
		WithUserIDProvider(userIDFromHeader).
		WithTenantIDProvider(memberTenantID(store.db)).
		WithLogger(log)
	if !store.manageTenantSchema || !env.ManageTenantSchema {
		builder = builder.WithoutTenantSchema()
	}
	tenancy, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("tenancy: %w", err)
	}
	if err := tenancy.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	svc := tenant.NewService(store.db, tenant.WithServiceCache(cache), tenant.WithServiceLogger(log))
	return newRouter(routerDeps{
		tenancy:  tenancy,
		service:  svc,
		cache:    cache,
		env:      env,
		logger:   log,
		checks:   store.checks,
		database: store.db,
	}), nil
}
