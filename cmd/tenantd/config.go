package main

import (
	"github.com/dmitrymomot/tenantkit/pkg/httpserver"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"

	cacheMemory = "memory"
	cacheRedis  = "redis"
	cacheNone   = "none"
)

// appConfig is the environment of the demo host. Postgres and Redis settings
// are loaded separately, only when the selected driver or cache needs them.
type appConfig struct {
	HTTP   httpserver.Config
	Log    logger.Config
	Tenant tenant.EnvConfig

	Driver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	SQLiteDSN string `env:"DB_SQLITE_DSN" envDefault:"file:tenantd.db?cache=shared"`
	Cache     string `env:"TENANT_CACHE_BACKEND" envDefault:"memory"`
}
