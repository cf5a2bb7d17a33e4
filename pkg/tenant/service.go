package tenant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmitrymomot/tenantkit/pkg/randomname"
)

// Service manages the lifecycle of tenant records. Tenants are not tenant-scoped:
// the service reads and writes the tenants table directly.
//
// Every error it returns is one of ErrTenantNotFound, ErrTenantAlreadyExists,
// ErrInvalidIdentifier or ErrOperationFailed; unexpected storage errors are
// joined with ErrOperationFailed so the cause stays reachable via errors.Is/As.
//
// Timestamps written here are overridden by the isolation plugin when it
// manages the tenants schema.
type Service struct {
	db     *gorm.DB
	cache  Cache
	logger *slog.Logger
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithServiceCache evicts renamed and deleted tenants from the cache the
// middleware uses for identifier lookups.
func WithServiceCache(cache Cache) ServiceOption {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a tenant service on top of the configured data context.
func NewService(db *gorm.DB, opts ...ServiceOption) *Service {
	s := &Service{
		db:     db,
		cache:  NewNoOpCache(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a tenant with a fresh id. The uniqueness check and the insert
// share one transaction; the partial unique index settles concurrent creates.
func (s *Service) Create(ctx context.Context, identifier string) (*Tenant, error) {
	identifier, err := normalizeIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	t := &Tenant{ID: uuid.New(), Identifier: identifier, CreatedAt: time.Now()}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureAvailable(tx, identifier, uuid.Nil); err != nil {
			return err
		}

		res := tx.Create(t)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected != 1 {
			return ErrOperationFailed
		}
		return nil
	})
	if err != nil {
		return nil, operationFailed(err)
	}

	s.logger.InfoContext(ctx, "tenant created", "tenant_id", t.ID, "identifier", t.Identifier)
	return t, nil
}

// Get returns the non-deleted tenant with the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	var t Tenant
	err := s.db.WithContext(ctx).
		Where("id = ? AND deleted = ?", id, false).
		First(&t).Error
	if err != nil {
		return nil, operationFailed(translate(err))
	}
	return &t, nil
}

// GetByIdentifier returns the non-deleted tenant holding identifier.
func (s *Service) GetByIdentifier(ctx context.Context, identifier string) (*Tenant, error) {
	return s.FindByIdentifier(ctx, identifier)
}

// FindByIdentifier returns the non-deleted tenant holding identifier.
func (s *Service) FindByIdentifier(ctx context.Context, identifier string) (*Tenant, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrTenantNotFound
	}

	var t Tenant
	err := s.db.WithContext(ctx).
		Where("identifier = ? AND deleted = ?", identifier, false).
		First(&t).Error
	if err != nil {
		return nil, operationFailed(translate(err))
	}
	return &t, nil
}

// List returns all non-deleted tenants ordered by identifier.
func (s *Service) List(ctx context.Context) ([]Tenant, error) {
	var tenants []Tenant
	err := s.db.WithContext(ctx).
		Where("deleted = ?", false).
		Order("identifier").
		Find(&tenants).Error
	if err != nil {
		return nil, operationFailed(err)
	}
	return tenants, nil
}

// Update renames a non-deleted tenant.
func (s *Service) Update(ctx context.Context, id uuid.UUID, identifier string) (*Tenant, error) {
	identifier, err := normalizeIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	var t Tenant
	var previous string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND deleted = ?", id, false).First(&t).Error; err != nil {
			return translate(err)
		}
		if err := ensureAvailable(tx, identifier, t.ID); err != nil {
			return err
		}

		previous = t.Identifier
		res := tx.Model(&t).Updates(map[string]any{
			"identifier": identifier,
			"updated_at": time.Now(),
		})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected != 1 {
			return ErrOperationFailed
		}
		return nil
	})
	if err != nil {
		return nil, operationFailed(err)
	}

	s.evict(ctx, previous)
	s.logger.InfoContext(ctx, "tenant updated", "tenant_id", t.ID, "identifier", t.Identifier)
	return &t, nil
}

// Delete soft-deletes a tenant. Deleting a missing or already deleted tenant
// returns ErrTenantNotFound.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var t Tenant
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND deleted = ?", id, false).First(&t).Error; err != nil {
			return translate(err)
		}

		res := tx.Model(&t).Updates(map[string]any{
			"deleted":    true,
			"updated_at": time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return false, operationFailed(err)
	}

	s.evict(ctx, t.Identifier)
	s.logger.InfoContext(ctx, "tenant deleted", "tenant_id", t.ID, "identifier", t.Identifier)
	return affected > 0, nil
}

// RandomIdentifier returns a plausible identifier candidate. It is not
// reserved: pass it to Create and handle ErrTenantAlreadyExists.
func (s *Service) RandomIdentifier() string {
	return randomname.Identifier()
}

func (s *Service) evict(ctx context.Context, identifier string) {
	if identifier == "" {
		return
	}
	if err := s.cache.Delete(ctx, identifier); err != nil {
		s.logger.WarnContext(ctx, "tenant: failed to evict cached tenant", "identifier", identifier, "error", err)
	}
}

// ensureAvailable fails if a non-deleted tenant other than self holds identifier.
func ensureAvailable(tx *gorm.DB, identifier string, self uuid.UUID) error {
	var count int64
	q := tx.Model(&Tenant{}).Where("identifier = ? AND deleted = ?", identifier, false)
	if self != uuid.Nil {
		q = q.Where("id <> ?", self)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrTenantAlreadyExists
	}
	return nil
}

// translate maps storage sentinels onto tenant errors.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrTenantNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrTenantAlreadyExists
	default:
		return err
	}
}

// normalizeIdentifier applies the resolver rule so every stored identifier can
// be looked up from a request. UUID-shaped values would be read as tenant ids.
func normalizeIdentifier(identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if !validReference(identifier) {
		return "", ErrInvalidIdentifier
	}
	if _, err := uuid.Parse(identifier); err == nil {
		return "", ErrInvalidIdentifier
	}
	return identifier, nil
}
