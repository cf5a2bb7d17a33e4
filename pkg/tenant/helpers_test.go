package tenant_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Note is a tenant-aware record used across the tests.
type Note struct {
	ID uint `gorm:"primaryKey"`
	tenant.Owned
	Title string
}

// Plain is never registered with the isolation plugin.
type Plain struct {
	ID    uint `gorm:"primaryKey"`
	Title string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func noID(*http.Request) (uuid.UUID, error) {
	return uuid.Nil, nil
}

func fixedID(id uuid.UUID) tenant.IDProvider {
	return func(*http.Request) (uuid.UUID, error) { return id, nil }
}

// newTestConfig builds and migrates a configuration with Note registered.
func newTestConfig(t *testing.T, customize ...func(*tenant.Builder) *tenant.Builder) *tenant.Configuration {
	t.Helper()

	b := tenant.NewBuilder().
		WithDB(newTestDB(t)).
		WithModels(&Note{}).
		WithUserIDProvider(noID).
		WithTenantIDProvider(noID)
	for _, c := range customize {
		b = c(b)
	}

	cfg, err := b.Build()
	require.NoError(t, err)
	require.NoError(t, cfg.Migrate(context.Background()))
	return cfg
}

func createNote(t *testing.T, ctx context.Context, db *gorm.DB, title string) Note {
	t.Helper()
	n := Note{Title: title}
	require.NoError(t, db.WithContext(ctx).Create(&n).Error)
	return n
}
