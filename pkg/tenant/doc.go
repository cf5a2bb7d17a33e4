// Package tenant provides row-level multi-tenancy for gorm backed HTTP services:
// it resolves the tenant of each request, keeps it in a per-request Holder,
// scopes every query on tenant-aware tables to that tenant and stamps it on
// new records.
//
// # Architecture
//
// The package is built around four pieces:
//
// 1. Configuration - built once at startup with NewBuilder, validated by Build
// 2. Middleware - resolves the tenant id per request and installs a Holder in the context
// 3. Isolation plugin - gorm callbacks installed by Build that filter and stamp tenant-aware records
// 4. Service - create, read, rename and soft-delete the tenants themselves
//
// # Usage
//
//	db, _ := gorm.Open(postgres.New(...), &gorm.Config{TranslateError: true})
//
//	cfg, err := tenant.NewBuilder().
//		WithDB(db).
//		WithModels(&Note{}).
//		WithUserIDProvider(currentUserID).
//		WithTenantIDProvider(currentUserTenantID).
//		Build()
//	if err != nil {
//		// missing inputs are reported here and never at request time
//	}
//	_ = cfg.Migrate(ctx)
//
//	router.Use(tenant.Middleware(cfg))
//
//	func listNotes(w http.ResponseWriter, r *http.Request) {
//		var notes []Note
//		// only notes of the request's tenant are returned
//		db.WithContext(r.Context()).Find(&notes)
//	}
//
// Tenant-aware models embed Owned (or implement Aware) and are registered with
// WithModels. The predicate reads the Holder from the statement context at
// execution time, so concurrent requests sharing one *gorm.DB each see their
// own tenant. Statements without a Holder, or with a Holder that resolved
// nothing, are scoped to uuid.Nil and match no rows.
//
// # Resolution
//
// The tenant id provider registered on the builder is asked first. If it
// yields uuid.Nil, the X-Tenant-Id header is parsed as a UUID. Other fallback
// strategies (subdomain, path, composite) can replace the header with
// WithFallbackResolver, and WithIdentifierLookup accepts human-readable
// identifiers, cached through a Cache (in-memory LRU, Redis, or no-op).
// Malformed or unknown values degrade to "no tenant"; only provider errors
// reach the error handler.
//
// # Stamping
//
// On create, and on Save of a whole record, a tenant-aware record whose tenant
// id is uuid.Nil receives the current tenant id. An explicit non-zero id is
// never overwritten. Tenant rows get CreatedAt on insert and UpdatedAt on
// every update.
//
// # Error Handling
//
// The package defines specific errors for common failure scenarios:
//
//   - ErrTenantNotFound: no non-deleted tenant matches
//   - ErrTenantAlreadyExists: the identifier is taken by a non-deleted tenant
//   - ErrOperationFailed: a write affected an unexpected number of rows, or storage failed
//   - ErrInvalidConfiguration: Build was called with missing inputs
//
// HTTPStatus maps them to the status codes hosts usually respond with.
//
// # Bypass
//
// Unscoped(db) disables filtering and stamping for one statement chain. It is
// meant for administrative tooling only.
package tenant
