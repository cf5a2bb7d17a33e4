package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDProvider reports an id for the current request. It is invoked lazily,
// once per request, after the configuration is built. It may return uuid.Nil.
type IDProvider func(r *http.Request) (uuid.UUID, error)

// EnvConfig holds the environment driven knobs of the tenancy layer.
type EnvConfig struct {
	Header             string        `env:"TENANT_HEADER" envDefault:"X-Tenant-Id"`
	SkipPaths          []string      `env:"TENANT_SKIP_PATHS" envSeparator:","`
	CacheTTL           time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`
	CacheSize          int           `env:"TENANT_CACHE_SIZE" envDefault:"1000"`
	ManageTenantSchema bool          `env:"TENANT_MANAGE_SCHEMA" envDefault:"true"`
}

// Configuration is the validated, immutable tenancy setup shared by all requests.
type Configuration struct {
	db                 *gorm.DB
	models             []any
	userModel          any
	roleModel          any
	userIDProvider     IDProvider
	tenantIDProvider   IDProvider
	manageTenantSchema bool
	logger             *slog.Logger
	now                func() time.Time
}

// DB returns the data context the isolation plugin is installed on.
func (c *Configuration) DB() *gorm.DB { return c.db }

// Models returns the registered tenant-aware models.
func (c *Configuration) Models() []any { return append([]any(nil), c.models...) }

// UserModel returns the optional identity user model.
func (c *Configuration) UserModel() any { return c.userModel }

// RoleModel returns the optional identity role model.
func (c *Configuration) RoleModel() any { return c.roleModel }

// ManageTenantSchema reports whether the tenancy layer owns the tenants table.
func (c *Configuration) ManageTenantSchema() bool { return c.manageTenantSchema }

// CurrentUserID invokes the configured user id provider.
func (c *Configuration) CurrentUserID(r *http.Request) (uuid.UUID, error) {
	return c.userIDProvider(r)
}

// CurrentTenantID invokes the configured tenant id provider.
func (c *Configuration) CurrentTenantID(r *http.Request) (uuid.UUID, error) {
	return c.tenantIDProvider(r)
}

// Migrate creates or updates the schema of every model known to the configuration.
// The tenants table is only migrated when the schema is managed.
func (c *Configuration) Migrate(ctx context.Context) error {
	var models []any
	if c.manageTenantSchema {
		models = append(models, &Tenant{})
	}
	if c.userModel != nil {
		models = append(models, c.userModel)
	}
	if c.roleModel != nil {
		models = append(models, c.roleModel)
	}
	models = append(models, c.models...)

	if err := Unscoped(c.db.WithContext(ctx)).AutoMigrate(models...); err != nil {
		return errors.Join(ErrOperationFailed, err)
	}
	return nil
}

// Builder assembles a Configuration. Each step returns the builder for chaining.
type Builder struct {
	cfg Configuration
}

// NewBuilder returns a builder with the tenants schema managed by default.
func NewBuilder() *Builder {
	return &Builder{cfg: Configuration{manageTenantSchema: true}}
}

// WithDB sets the data context. Required.
func (b *Builder) WithDB(db *gorm.DB) *Builder {
	b.cfg.db = db
	return b
}

// WithModels registers tenant-aware models whose queries are scoped to the current tenant.
func (b *Builder) WithModels(models ...any) *Builder {
	b.cfg.models = append(b.cfg.models, models...)
	return b
}

// WithUserModel sets the identity user model, if the host has one.
func (b *Builder) WithUserModel(model any) *Builder {
	b.cfg.userModel = model
	return b
}

// WithRoleModel sets the identity role model, if the host has one.
func (b *Builder) WithRoleModel(model any) *Builder {
	b.cfg.roleModel = model
	return b
}

// WithUserIDProvider registers the current user id provider. Required.
func (b *Builder) WithUserIDProvider(p IDProvider) *Builder {
	b.cfg.userIDProvider = p
	return b
}

// WithTenantIDProvider registers the current tenant id provider. Required.
func (b *Builder) WithTenantIDProvider(p IDProvider) *Builder {
	b.cfg.tenantIDProvider = p
	return b
}

// WithoutTenantSchema leaves the tenants table and its timestamps to the host.
func (b *Builder) WithoutTenantSchema() *Builder {
	b.cfg.manageTenantSchema = false
	return b
}

// WithLogger sets the logger used by the isolation plugin.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.cfg.logger = logger
	return b
}

// WithClock overrides the time source used for tenant timestamps.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.cfg.now = now
	return b
}

// Build validates the configuration and installs the isolation plugin on the data context.
// It must be called once at startup; the returned configuration is never mutated.
func (b *Builder) Build() (*Configuration, error) {
	var errs []error
	if b.cfg.db == nil {
		errs = append(errs, ErrMissingDataContext)
	}
	if b.cfg.userIDProvider == nil {
		errs = append(errs, ErrMissingUserIDProvider)
	}
	if b.cfg.tenantIDProvider == nil {
		errs = append(errs, ErrMissingTenantIDProvider)
	}
	for _, m := range b.cfg.models {
		if _, ok := m.(Aware); !ok {
			errs = append(errs, fmt.Errorf("%w: %T", ErrNotTenantAware, m))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(append([]error{ErrInvalidConfiguration}, errs...)...)
	}

	cfg := b.cfg
	cfg.models = append([]any(nil), b.cfg.models...)
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}

	if err := cfg.db.Use(newIsolation(&cfg)); err != nil {
		return nil, errors.Join(ErrInvalidConfiguration, err)
	}

	return &cfg, nil
}
