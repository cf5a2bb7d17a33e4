package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/dmitrymomot/tenantkit/pkg/clientip"
	"github.com/dmitrymomot/tenantkit/pkg/httpserver"
	"github.com/dmitrymomot/tenantkit/pkg/requestid"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

type routerDeps struct {
	tenancy  *tenant.Configuration
	service  *tenant.Service
	cache    tenant.Cache
	env      tenant.EnvConfig
	logger   *slog.Logger
	checks   []func(context.Context) error
	database *gorm.DB
}

func newRouter(d routerDeps) http.Handler {
	onError := errorWriter(d.logger)
	tenants := &tenantHandlers{svc: d.service, db: d.database, onError: onError}
	notes := &noteHandlers{db: d.database, onError: onError}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health/live", httpserver.HealthCheckHandler(d.logger))
	r.Get("/health/ready", httpserver.HealthCheckHandler(d.logger, d.checks...))

	r.Group(func(r chi.Router) {
		r.Use(tenant.Middleware(d.tenancy,
			tenant.WithEnv(d.env),
			tenant.WithIdentifierLookup(d.service),
			tenant.WithCache(d.cache),
			tenant.WithErrorHandler(onError),
			tenant.WithLogger(d.logger),
		))

		r.Route("/tenants", func(r chi.Router) {
			r.Get("/", tenants.list)
			r.Post("/", tenants.create)
			r.Get("/random-identifier", tenants.randomIdentifier)
			r.Get("/{ref}", tenants.get)
			r.Patch("/{id}", tenants.update)
			r.Delete("/{id}", tenants.delete)
			r.Post("/{id}/members", tenants.addMember)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Use(tenant.RequireTenant(onError))
			r.Get("/", notes.list)
			r.Post("/", notes.create)
			r.Get("/{id}", notes.get)
			r.Put("/{id}", notes.update)
			r.Delete("/{id}", notes.delete)
		})
	})

	return r
}
