// internal/tenant/repository.go
//
// Tenant-table query helpers.
//
// Context
// -------
// Read-only access to the `tenant` table.  `ByID` backs admin and debug
// views; `BySlug` backs onboarding and admin tooling; `AllActive` is
// for dashboards and batch jobs, not the request path.
//
// Errors are returned verbatim so callers can wrap or log them with the
// project logger.
package tenant

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ByID fetches a single tenant row by primary key.
func ByID(ctx context.Context, db *sqlx.DB, id uuid.UUID) (*Record, error) {
	const q = `
        SELECT id, slug, name, status, plan, created_at, updated_at
        FROM   tenant
        WHERE  id = ?
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, id); err != nil {
		return nil, err
	}
	return &rec, nil
}

// BySlug fetches a single tenant row by its globally unique slug.
func BySlug(ctx context.Context, db *sqlx.DB, slug string) (*Record, error) {
	const q = `
        SELECT id, slug, name, status, plan, created_at, updated_at
        FROM   tenant
        WHERE  slug = ?
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, slug); err != nil {
		return nil, err
	}
	return &rec, nil
}

// AllActive returns every tenant whose status is 'active'.  Intended for
// admin dashboards or batch operations, not the HTTP request path.
func AllActive(db *sqlx.DB) ([]Record, error) {
	const q = `
        SELECT id, slug, name, status, plan, created_at, updated_at
        FROM   tenant
        WHERE  status = 'active'`
	var rows []Record
	if err := db.Select(&rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}
