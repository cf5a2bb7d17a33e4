package tenant_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func TestIsolation(t *testing.T) {
	t.Parallel()

	t.Run("queries never cross tenants", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		t1, t2 := uuid.New(), uuid.New()
		ctx1 := tenant.WithTenantID(context.Background(), t1)
		ctx2 := tenant.WithTenantID(context.Background(), t2)

		createNote(t, ctx1, db, "one")
		createNote(t, ctx1, db, "two")
		createNote(t, ctx2, db, "three")

		var notes []Note
		require.NoError(t, db.WithContext(ctx1).Find(&notes).Error)
		require.Len(t, notes, 2)
		for _, n := range notes {
			assert.Equal(t, t1, n.TenantID)
		}

		require.NoError(t, db.WithContext(ctx2).Find(&notes).Error)
		require.Len(t, notes, 1)
		assert.Equal(t, t2, notes[0].TenantID)
		assert.Equal(t, "three", notes[0].Title)
	})

	t.Run("stamps current tenant on create", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		id := uuid.New()
		ctx := tenant.WithTenantID(context.Background(), id)

		n := createNote(t, ctx, db, "stamped")
		assert.Equal(t, id, n.TenantID)

		var stored Note
		require.NoError(t, tenant.Unscoped(db).First(&stored, n.ID).Error)
		assert.Equal(t, id, stored.TenantID)
	})

	t.Run("stamps every record of a batch", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		id := uuid.New()
		ctx := tenant.WithTenantID(context.Background(), id)

		notes := []Note{{Title: "a"}, {Title: "b"}, {Title: "c"}}
		require.NoError(t, db.WithContext(ctx).Create(&notes).Error)
		for _, n := range notes {
			assert.Equal(t, id, n.TenantID)
		}
	})

	t.Run("keeps explicit tenant id on create", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		current, explicit := uuid.New(), uuid.New()
		ctx := tenant.WithTenantID(context.Background(), current)

		n := Note{Owned: tenant.Owned{TenantID: explicit}, Title: "explicit"}
		require.NoError(t, db.WithContext(ctx).Create(&n).Error)
		assert.Equal(t, explicit, n.TenantID)

		var stored Note
		require.NoError(t, tenant.Unscoped(db).First(&stored, n.ID).Error)
		assert.Equal(t, explicit, stored.TenantID)

		var visible int64
		require.NoError(t, db.WithContext(ctx).Model(&Note{}).Count(&visible).Error)
		assert.Zero(t, visible)
	})

	t.Run("save stamps zero tenant id and keeps explicit one", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		id := uuid.New()
		ctx := tenant.WithTenantID(context.Background(), id)
		n := createNote(t, ctx, db, "draft")

		detached := Note{ID: n.ID, Title: "renamed"}
		require.NoError(t, db.WithContext(ctx).Save(&detached).Error)
		assert.Equal(t, id, detached.TenantID)

		var stored Note
		require.NoError(t, db.WithContext(ctx).First(&stored, n.ID).Error)
		assert.Equal(t, "renamed", stored.Title)
		assert.Equal(t, id, stored.TenantID)

		stored.Title = "final"
		require.NoError(t, db.WithContext(ctx).Save(&stored).Error)
		assert.Equal(t, id, stored.TenantID)
	})

	t.Run("save cannot take over a record of another tenant", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		owner, intruder := uuid.New(), uuid.New()
		victim := createNote(t, tenant.WithTenantID(context.Background(), owner), db, "mine")

		hijack := Note{ID: victim.ID, Title: "hijacked"}
		require.NoError(t, db.WithContext(tenant.WithTenantID(context.Background(), intruder)).Save(&hijack).Error)

		var stored Note
		require.NoError(t, tenant.Unscoped(db).First(&stored, victim.ID).Error)
		assert.Equal(t, owner, stored.TenantID)
		assert.Equal(t, "mine", stored.Title)
	})

	t.Run("no resolved tenant yields empty results", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		createNote(t, tenant.WithTenantID(context.Background(), uuid.New()), db, "hidden")

		var notes []Note
		require.NoError(t, db.WithContext(context.Background()).Find(&notes).Error)
		assert.Empty(t, notes)

		emptyHolder := tenant.WithHolder(context.Background(), tenant.NewHolder())
		require.NoError(t, db.WithContext(emptyHolder).Find(&notes).Error)
		assert.Empty(t, notes)

		var count int64
		require.NoError(t, db.Model(&Note{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("holder switched mid session attributes each record once", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		x, y := uuid.New(), uuid.New()
		holder := tenant.NewHolder()
		ctx := tenant.WithHolder(context.Background(), holder)
		session := db.WithContext(ctx)

		holder.SetTenantID(x)
		require.NoError(t, session.Create(&Note{Title: "x"}).Error)
		holder.SetTenantID(y)
		require.NoError(t, session.Create(&Note{Title: "y"}).Error)

		holder.SetTenantID(x)
		var notes []Note
		require.NoError(t, session.Find(&notes).Error)
		require.Len(t, notes, 1)
		assert.Equal(t, "x", notes[0].Title)
		assert.Equal(t, x, notes[0].TenantID)

		var all []Note
		require.NoError(t, tenant.Unscoped(db).Order("id").Find(&all).Error)
		require.Len(t, all, 2)
		assert.Equal(t, x, all[0].TenantID)
		assert.Equal(t, y, all[1].TenantID)
	})

	t.Run("trailing or condition stays inside the tenant", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		ctx1 := tenant.WithTenantID(context.Background(), uuid.New())
		ctx2 := tenant.WithTenantID(context.Background(), uuid.New())
		createNote(t, ctx1, db, "mine")
		createNote(t, ctx2, db, "theirs")

		var notes []Note
		err := db.WithContext(ctx1).
			Where("title = ?", "nothing").
			Or("title = ?", "theirs").
			Find(&notes).Error
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("updates and deletes are scoped", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		ctx1 := tenant.WithTenantID(context.Background(), uuid.New())
		ctx2 := tenant.WithTenantID(context.Background(), uuid.New())
		mine := createNote(t, ctx1, db, "mine")
		theirs := createNote(t, ctx2, db, "theirs")

		res := db.WithContext(ctx1).Model(&Note{}).Where("title <> ?", "").Update("title", "changed")
		require.NoError(t, res.Error)
		assert.Equal(t, int64(1), res.RowsAffected)

		res = db.WithContext(ctx1).Delete(&Note{}, theirs.ID)
		require.NoError(t, res.Error)
		assert.Zero(t, res.RowsAffected)

		var stored Note
		require.NoError(t, tenant.Unscoped(db).First(&stored, theirs.ID).Error)
		assert.Equal(t, "theirs", stored.Title)

		res = db.WithContext(ctx1).Delete(&Note{}, mine.ID)
		require.NoError(t, res.Error)
		assert.Equal(t, int64(1), res.RowsAffected)
	})

	t.Run("updates and deletes without conditions are rejected", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		ctx := tenant.WithTenantID(context.Background(), uuid.New())
		createNote(t, ctx, db, "a")
		kept := createNote(t, ctx, db, "b")

		err := db.WithContext(ctx).Model(&Note{}).Update("title", "wiped").Error
		assert.ErrorIs(t, err, gorm.ErrMissingWhereClause)

		err = db.WithContext(ctx).Delete(&Note{}).Error
		assert.ErrorIs(t, err, gorm.ErrMissingWhereClause)

		var notes []Note
		require.NoError(t, db.WithContext(ctx).Order("id").Find(&notes).Error)
		require.Len(t, notes, 2)
		assert.Equal(t, "a", notes[0].Title)

		// the primary key of the model is a condition
		res := db.WithContext(ctx).Model(&kept).Update("title", "renamed")
		require.NoError(t, res.Error)
		assert.Equal(t, int64(1), res.RowsAffected)
		res = db.WithContext(ctx).Delete(&kept)
		require.NoError(t, res.Error)
		assert.Equal(t, int64(1), res.RowsAffected)
	})

	t.Run("global updates stay inside the tenant when allowed", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		ctx1 := tenant.WithTenantID(context.Background(), uuid.New())
		ctx2 := tenant.WithTenantID(context.Background(), uuid.New())
		createNote(t, ctx1, db, "mine")
		theirs := createNote(t, ctx2, db, "theirs")

		global := db.Session(&gorm.Session{AllowGlobalUpdate: true})
		res := global.WithContext(ctx1).Model(&Note{}).Update("title", "changed")
		require.NoError(t, res.Error)
		assert.Equal(t, int64(1), res.RowsAffected)

		res = global.WithContext(ctx1).Delete(&Note{})
		require.NoError(t, res.Error)
		assert.Equal(t, int64(1), res.RowsAffected)

		var stored Note
		require.NoError(t, tenant.Unscoped(db).First(&stored, theirs.ID).Error)
		assert.Equal(t, "theirs", stored.Title)
	})

	t.Run("stamps creates given as column maps", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		current, explicit := uuid.New(), uuid.New()
		ctx := tenant.WithTenantID(context.Background(), current)

		require.NoError(t, db.WithContext(ctx).Model(&Note{}).Create(map[string]any{"title": "single"}).Error)
		batch := []map[string]any{
			{"title": "first"},
			{"title": "second", "tenant_id": uuid.Nil},
			{"title": "explicit", "tenant_id": explicit},
		}
		require.NoError(t, db.WithContext(ctx).Model(&Note{}).Create(&batch).Error)

		var notes []Note
		require.NoError(t, tenant.Unscoped(db).Order("id").Find(&notes).Error)
		require.Len(t, notes, 4)
		byTitle := make(map[string]uuid.UUID, len(notes))
		for _, n := range notes {
			byTitle[n.Title] = n.TenantID
		}
		assert.Equal(t, current, byTitle["single"])
		assert.Equal(t, current, byTitle["first"])
		assert.Equal(t, current, byTitle["second"])
		assert.Equal(t, explicit, byTitle["explicit"])
	})

	t.Run("row queries are scoped", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		ctx1 := tenant.WithTenantID(context.Background(), uuid.New())
		createNote(t, ctx1, db, "a")
		createNote(t, ctx1, db, "b")
		createNote(t, tenant.WithTenantID(context.Background(), uuid.New()), db, "c")

		var count int64
		require.NoError(t, db.WithContext(ctx1).Model(&Note{}).Select("count(*)").Row().Scan(&count))
		assert.Equal(t, int64(2), count)
	})

	t.Run("unscoped reads across tenants", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		ctx1 := tenant.WithTenantID(context.Background(), uuid.New())
		createNote(t, ctx1, db, "a")
		createNote(t, tenant.WithTenantID(context.Background(), uuid.New()), db, "b")

		var notes []Note
		require.NoError(t, tenant.Unscoped(db.WithContext(ctx1)).Find(&notes).Error)
		assert.Len(t, notes, 2)
	})

	t.Run("unregistered tables are not rewritten", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		require.NoError(t, db.AutoMigrate(&Plain{}))
		require.NoError(t, db.Create(&[]Plain{{Title: "a"}, {Title: "b"}}).Error)

		var rows []Plain
		require.NoError(t, db.WithContext(context.Background()).Find(&rows).Error)
		assert.Len(t, rows, 2)
	})

	t.Run("concurrent requests see only their own tenant", func(t *testing.T) {
		t.Parallel()

		db := newTestConfig(t).DB()
		ids := make([]uuid.UUID, 8)
		for i := range ids {
			ids[i] = uuid.New()
			ctx := tenant.WithTenantID(context.Background(), ids[i])
			createNote(t, ctx, db, "a")
			createNote(t, ctx, db, "b")
		}

		var wg sync.WaitGroup
		errs := make(chan error, len(ids))
		for _, id := range ids {
			wg.Add(1)
			go func(id uuid.UUID) {
				defer wg.Done()
				var notes []Note
				if err := db.WithContext(tenant.WithTenantID(context.Background(), id)).Find(&notes).Error; err != nil {
					errs <- err
					return
				}
				if len(notes) != 2 {
					errs <- assert.AnError
					return
				}
				for _, n := range notes {
					if n.TenantID != id {
						errs <- assert.AnError
						return
					}
				}
			}(id)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}
	})
}

func TestTenantTimestamps(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	t.Run("managed schema stamps created and updated times", func(t *testing.T) {
		t.Parallel()

		now := created
		cfg := newTestConfig(t, func(b *tenant.Builder) *tenant.Builder {
			return b.WithClock(func() time.Time { return now })
		})
		svc := tenant.NewService(cfg.DB())
		ctx := context.Background()

		tn, err := svc.Create(ctx, "acme")
		require.NoError(t, err)
		assert.True(t, tn.CreatedAt.Equal(created))
		assert.Nil(t, tn.UpdatedAt)

		now = updated
		tn, err = svc.Update(ctx, tn.ID, "acme-inc")
		require.NoError(t, err)
		require.NotNil(t, tn.UpdatedAt)
		assert.True(t, tn.UpdatedAt.Equal(updated))

		stored, err := svc.Get(ctx, tn.ID)
		require.NoError(t, err)
		assert.True(t, stored.CreatedAt.Equal(created))
		require.NotNil(t, stored.UpdatedAt)
		assert.True(t, stored.UpdatedAt.Equal(updated))
	})

	t.Run("delete refreshes updated time", func(t *testing.T) {
		t.Parallel()

		now := created
		cfg := newTestConfig(t, func(b *tenant.Builder) *tenant.Builder {
			return b.WithClock(func() time.Time { return now })
		})
		svc := tenant.NewService(cfg.DB())
		ctx := context.Background()

		tn, err := svc.Create(ctx, "acme")
		require.NoError(t, err)

		now = updated
		ok, err := svc.Delete(ctx, tn.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		var stored tenant.Tenant
		require.NoError(t, cfg.DB().First(&stored, "id = ?", tn.ID).Error)
		assert.True(t, stored.Deleted)
		require.NotNil(t, stored.UpdatedAt)
		assert.True(t, stored.UpdatedAt.Equal(updated))
	})

	t.Run("unmanaged schema leaves timestamps to the caller", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig(t, func(b *tenant.Builder) *tenant.Builder {
			return b.WithoutTenantSchema().WithClock(func() time.Time { return created })
		})
		require.NoError(t, cfg.DB().AutoMigrate(&tenant.Tenant{}))

		own := created.Add(-24 * time.Hour)
		tn := tenant.Tenant{ID: uuid.New(), Identifier: "manual", CreatedAt: own}
		require.NoError(t, cfg.DB().Create(&tn).Error)
		assert.True(t, tn.CreatedAt.Equal(own))
	})
}
