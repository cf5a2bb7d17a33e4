package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the root entity every tenant-aware record belongs to.
// Identifier is unique among non-deleted tenants; deleted tenants keep their row.
//
// CreatedAt and UpdatedAt are maintained by the isolation plugin, not by gorm's
// auto time tracking: UpdatedAt stays nil until the first modification.
type Tenant struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Identifier string     `gorm:"size:255;not null;uniqueIndex:idx_tenants_identifier_active,where:deleted = false" json:"identifier"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt  *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
	Deleted    bool       `gorm:"not null;index" json:"deleted"`
}

// Table is the table name of the root tenant entity.
const Table = "tenants"

// TableName pins the table name so the plugin and migrations agree on it.
func (Tenant) TableName() string {
	return Table
}

// Aware is the capability implemented by every record that is owned by a tenant.
// Records registered with the isolation plugin must implement it on the pointer receiver.
type Aware interface {
	GetTenantID() uuid.UUID
	SetTenantID(id uuid.UUID)
}

// Owned is embedded into tenant-aware models to provide the tenant_id column.
// A model may additionally declare a non-owning back-reference:
//
//	type Note struct {
//		ID uint
//		tenant.Owned
//		Tenant *tenant.Tenant `gorm:"foreignKey:TenantID"`
//	}
type Owned struct {
	TenantID uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
}

// GetTenantID returns the owning tenant id.
func (o *Owned) GetTenantID() uuid.UUID {
	return o.TenantID
}

// SetTenantID assigns the owning tenant id.
func (o *Owned) SetTenantID(id uuid.UUID) {
	o.TenantID = id
}

// tenantIDField is the struct field every tenant-aware schema must expose.
const tenantIDField = "TenantID"
