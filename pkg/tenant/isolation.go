package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	pluginName = "tenant:isolation"

	// unscopedKey marks a statement chain that bypasses scoping and stamping.
	unscopedKey = "tenant:unscoped"

	// scopedClause marks a statement that already carries the tenant predicate.
	scopedClause = "tenant_scope_enabled"
)

// Unscoped returns a chain that reads and writes across all tenants.
// Reserved for administrative code paths; nothing in the request pipeline uses it.
func Unscoped(db *gorm.DB) *gorm.DB {
	return db.Set(unscopedKey, true)
}

// isolation is a gorm plugin that scopes every statement on a registered
// tenant-aware table to the tenant held in the statement context, and stamps
// the tenant id on created or saved records.
type isolation struct {
	models             []any
	manageTenantSchema bool
	logger             *slog.Logger
	now                func() time.Time

	// tables maps table name to tenant id column, filled once in Initialize.
	tables map[string]string
}

func newIsolation(cfg *Configuration) *isolation {
	return &isolation{
		models:             cfg.models,
		manageTenantSchema: cfg.manageTenantSchema,
		logger:             cfg.logger,
		now:                cfg.now,
		tables:             make(map[string]string, len(cfg.models)),
	}
}

// Name implements gorm.Plugin.
func (p *isolation) Name() string {
	return pluginName
}

// Initialize implements gorm.Plugin. It resolves the schema of every registered
// model and registers the scoping and stamping callbacks.
func (p *isolation) Initialize(db *gorm.DB) error {
	for _, model := range p.models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return fmt.Errorf("tenant: parse %T: %w", model, err)
		}
		field := stmt.Schema.LookUpField(tenantIDField)
		if field == nil || field.DBName == "" {
			return fmt.Errorf("%w: %T has no %s column", ErrNotTenantAware, model, tenantIDField)
		}
		p.tables[stmt.Schema.Table] = field.DBName
	}

	cb := db.Callback()
	return errors.Join(
		cb.Query().Before("gorm:query").Register("tenant:scope_query", p.scope),
		cb.Row().Before("gorm:row").Register("tenant:scope_row", p.scope),
		cb.Update().Before("gorm:update").Register("tenant:scope_update", p.scopeWrite),
		cb.Delete().Before("gorm:delete").Register("tenant:scope_delete", p.scopeWrite),
		cb.Create().Before("gorm:create").Register("tenant:stamp_create", p.stampCreate),
		cb.Update().Before("gorm:update").Register("tenant:stamp_update", p.stampUpdate),
	)
}

// scopeWrite rejects updates and deletes that carry neither a condition nor a
// primary key before adding the tenant predicate. gorm checks for a missing
// WHERE only after the predicate is in place, so the check never fires on
// registered tables.
func (p *isolation) scopeWrite(db *gorm.DB) {
	stmt := db.Statement
	if db.Error != nil || stmt.SQL.Len() > 0 || bypassed(db) {
		return
	}
	if _, ok := p.tables[tableOf(stmt)]; !ok {
		return
	}
	if _, done := stmt.Clauses[scopedClause]; !done && !db.AllowGlobalUpdate && !hasCondition(stmt) {
		_ = db.AddError(gorm.ErrMissingWhereClause)
		return
	}
	p.scope(db)
}

// hasCondition reports whether the statement is restricted by a caller WHERE
// or by the primary key gorm derives from the model value.
func hasCondition(stmt *gorm.Statement) bool {
	if c, ok := stmt.Clauses["WHERE"]; ok {
		if where, ok := c.Expression.(clause.Where); ok && len(where.Exprs) > 0 {
			return true
		}
	}
	if stmt.Schema == nil || len(stmt.Schema.PrimaryFields) == 0 {
		return false
	}

	found := false
	eachRecord(stmt.ReflectValue, func(v any) {
		rv := reflect.ValueOf(v).Elem()
		for _, field := range stmt.Schema.PrimaryFields {
			if _, zero := field.ValueOf(stmt.Context, rv); !zero {
				found = true
			}
		}
	})
	return found
}

// scope appends "tenant_id = <current>" to the statement's WHERE clause.
// With no tenant resolved the predicate compares against uuid.Nil, so the
// statement matches nothing instead of everything.
func (p *isolation) scope(db *gorm.DB) {
	stmt := db.Statement
	if db.Error != nil || stmt.SQL.Len() > 0 || bypassed(db) {
		return
	}
	column, ok := p.tables[tableOf(stmt)]
	if !ok {
		return
	}
	if _, done := stmt.Clauses[scopedClause]; done {
		return
	}

	// Group existing conditions so a trailing OR cannot escape the predicate.
	if c, ok := stmt.Clauses["WHERE"]; ok {
		if where, ok := c.Expression.(clause.Where); ok && len(where.Exprs) > 1 {
			where.Exprs = []clause.Expression{clause.And(where.Exprs...)}
			c.Expression = where
			stmt.Clauses["WHERE"] = c
		}
	}

	stmt.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: column}, Value: currentTenantID(stmt.Context)},
	}})
	stmt.Clauses[scopedClause] = clause.Clause{}
}

// stampCreate assigns the current tenant to new records that carry none and
// sets the creation timestamps of new tenants.
func (p *isolation) stampCreate(db *gorm.DB) {
	stmt := db.Statement
	if db.Error != nil || stmt.Schema == nil || bypassed(db) {
		return
	}
	table := tableOf(stmt)

	if column, ok := p.tables[table]; ok {
		p.stampTenantID(stmt)
		p.stampColumnMaps(stmt, column)
		guardUpsert(stmt, table, column)
	}

	if p.manageTenantSchema && table == Table {
		now := p.now()
		eachRecord(stmt.ReflectValue, func(v any) {
			if t, ok := v.(*Tenant); ok {
				t.CreatedAt = now
				t.UpdatedAt = nil
			}
		})
	}
}

// guardUpsert restricts the DO UPDATE branch of an upsert to rows of the
// current tenant. Save falls back to such an upsert when its scoped UPDATE
// matched nothing, which would otherwise rewrite a row of another tenant.
func guardUpsert(stmt *gorm.Statement, table, column string) {
	c, ok := stmt.Clauses["ON CONFLICT"]
	if !ok {
		return
	}
	onConflict, ok := c.Expression.(clause.OnConflict)
	if !ok || onConflict.DoNothing {
		return
	}
	onConflict.Where.Exprs = append(onConflict.Where.Exprs, clause.Eq{
		Column: clause.Column{Table: table, Name: column},
		Value:  currentTenantID(stmt.Context),
	})
	c.Expression = onConflict
	stmt.Clauses["ON CONFLICT"] = c
}

// stampUpdate assigns the current tenant to saved records that carry none and
// refreshes the update timestamp of modified tenants.
func (p *isolation) stampUpdate(db *gorm.DB) {
	stmt := db.Statement
	if db.Error != nil || stmt.Schema == nil || bypassed(db) {
		return
	}
	table := tableOf(stmt)

	// Only whole-record saves are stamped; column updates never touch tenant_id.
	if _, ok := p.tables[table]; ok && savesModel(stmt) {
		p.stampTenantID(stmt)
	}

	if p.manageTenantSchema && table == Table {
		now := p.now()
		eachRecord(stmt.ReflectValue, func(v any) {
			if t, ok := v.(*Tenant); ok {
				t.UpdatedAt = &now
			}
		})
		switch stmt.Dest.(type) {
		case map[string]any, []map[string]any:
			stmt.SetColumn("updated_at", now, true)
		}
	}
}

// stampTenantID never overwrites an explicit, non-zero tenant id.
func (p *isolation) stampTenantID(stmt *gorm.Statement) {
	id := currentTenantID(stmt.Context)
	if id == uuid.Nil {
		p.logger.DebugContext(stmt.Context, "tenant: no tenant resolved, records left unstamped", "table", tableOf(stmt))
		return
	}
	eachRecord(stmt.ReflectValue, func(v any) {
		if a, ok := v.(Aware); ok && a.GetTenantID() == uuid.Nil {
			a.SetTenantID(id)
		}
	})
}

// stampColumnMaps covers creates given as column maps, keyed by either the
// column or the field name.
func (p *isolation) stampColumnMaps(stmt *gorm.Statement, column string) {
	id := currentTenantID(stmt.Context)
	if id == uuid.Nil {
		return
	}

	var rows []map[string]any
	switch dest := stmt.Dest.(type) {
	case map[string]any:
		rows = []map[string]any{dest}
	case *map[string]any:
		rows = []map[string]any{*dest}
	case []map[string]any:
		rows = dest
	case *[]map[string]any:
		rows = *dest
	}
	for _, row := range rows {
		if !carriesValue(row, column) && !carriesValue(row, tenantIDField) {
			delete(row, tenantIDField)
			row[column] = id
		}
	}
}

func carriesValue(row map[string]any, key string) bool {
	v, ok := row[key]
	if !ok || v == nil {
		return false
	}
	return !reflect.ValueOf(v).IsZero()
}

// savesModel reports whether the statement persists the model value itself,
// as Save does, rather than a separate map or struct of columns.
func savesModel(stmt *gorm.Statement) bool {
	dest, model := reflect.ValueOf(stmt.Dest), reflect.ValueOf(stmt.Model)
	if dest.Kind() != reflect.Ptr || model.Kind() != reflect.Ptr {
		return false
	}
	return dest.Pointer() == model.Pointer()
}

func bypassed(db *gorm.DB) bool {
	v, ok := db.Get(unscopedKey)
	if !ok {
		return false
	}
	skip, _ := v.(bool)
	return skip
}

func tableOf(stmt *gorm.Statement) string {
	if stmt.Table != "" {
		return stmt.Table
	}
	if stmt.Schema != nil {
		return stmt.Schema.Table
	}
	return ""
}

func currentTenantID(ctx context.Context) uuid.UUID {
	h, _ := HolderFromContext(ctx)
	return h.TenantID()
}

// eachRecord calls fn with a pointer to every struct held by rv.
func eachRecord(rv reflect.Value, fn func(any)) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i)
			switch {
			case elem.Kind() == reflect.Ptr:
				if !elem.IsNil() {
					fn(elem.Interface())
				}
			case elem.CanAddr():
				fn(elem.Addr().Interface())
			}
		}
	case reflect.Struct:
		if rv.CanAddr() {
			fn(rv.Addr().Interface())
		}
	}
}
