// internal/record/store.go
//
// Scoped CRUD over one document collection.
//
// Context
// -------
// Every operation takes an explicit scope.Scope and applies its
// Predicate, so a read can only surface records visible to the resolved
// tenant/website and a write can only touch records the tenant owns.
// Scope tags on writes come from the Scope, never from the payload.
// Delete reports zero affected rows as ErrNotFound; update decides via
// a scoped re-read, because the driver counts changed rows and a no-op
// rewrite of an owned record affects nothing.  Either way, whether a
// missing target is absent or owned by another tenant is
// indistinguishable on purpose.
//
// The table name is interpolated into the SQL text, so constructors
// accept only collection names from a fixed allowlist.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/loomsites/loom/internal/routing"
	"github.com/loomsites/loom/internal/scope"
)

// ErrNotFound is returned when a record is absent from the caller's
// scope.  Cross-tenant targets collapse into it.
var ErrNotFound = errors.New("record not found")

// Collections that may back a Store.
var collections = map[string]struct{}{
	"page":      {},
	"post":      {},
	"product":   {},
	"category":  {},
	"tag":       {},
	"media":     {},
	"order_doc": {},
}

const columns = "id, tenant_id, website_id, slug, title, body, status, created_at, updated_at"

// Store provides scoped CRUD over a single collection table.
type Store struct {
	db    *sqlx.DB
	table string
}

// NewStore returns a Store for one collection.  Unknown collection
// names are rejected so arbitrary table text never reaches the SQL.
func NewStore(db *sqlx.DB, collection string) (*Store, error) {
	if _, ok := collections[collection]; !ok {
		return nil, fmt.Errorf("record: unknown collection %q", collection)
	}
	return &Store{db: db, table: collection}, nil
}

// Collection reports the table this store operates on.
func (s *Store) Collection() string { return s.table }

// List returns every record visible to sc, newest first.
func (s *Store) List(ctx context.Context, sc scope.Scope) ([]Record, error) {
	pred, args, err := sc.Predicate()
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY created_at DESC`,
		columns, s.table, pred)
	var rows []Record
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// Get fetches one record by id within sc.
func (s *Store) Get(ctx context.Context, sc scope.Scope, id uuid.UUID) (*Record, error) {
	pred, args, err := sc.Predicate()
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ? AND %s LIMIT 1`,
		columns, s.table, pred)
	var rec Record
	if err := s.db.GetContext(ctx, &rec, q, append([]any{id}, args...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// BySlug fetches one record by slug within sc.  When both a
// website-specific and a tenant-wide record share the slug, the
// website-specific one wins.
func (s *Store) BySlug(ctx context.Context, sc scope.Scope, slug string) (*Record, error) {
	pred, args, err := sc.Predicate()
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(
		`SELECT %s FROM %s WHERE slug = ? AND %s ORDER BY website_id IS NULL LIMIT 1`,
		columns, s.table, pred)
	var rec Record
	if err := s.db.GetContext(ctx, &rec, q, append([]any{slug}, args...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Create inserts a new record stamped with sc.  The returned Record
// carries the generated id and the server-side scope tags.
func (s *Store) Create(ctx context.Context, sc scope.Scope, d Draft) (*Record, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	rec := Record{
		ID:       uuid.New(),
		TenantID: sc.TenantID,
		Slug:     d.Slug,
		Title:    d.Title,
		Body:     d.Body,
		Status:   d.Status,
	}
	if rec.Slug == "" {
		rec.Slug = routing.MakeSlug(d.Title)
	}
	if rec.Status == "" {
		rec.Status = "draft"
	}
	if sc.Kind() == scope.WebsiteScoped {
		rec.WebsiteID = uuid.NullUUID{UUID: sc.WebsiteID, Valid: true}
	}

	q := fmt.Sprintf(
		`INSERT INTO %s (id, tenant_id, website_id, slug, title, body, status)
         VALUES (?, ?, ?, ?, ?, ?, ?)`, s.table)
	if _, err := s.db.ExecContext(ctx, q,
		rec.ID, rec.TenantID, rec.WebsiteID, rec.Slug, rec.Title, rec.Body, rec.Status); err != nil {
		return nil, err
	}

	now := time.Now()
	rec.CreatedAt, rec.UpdatedAt = now, now
	return &rec, nil
}

// Update rewrites the caller-editable fields of one record within sc.
// A target outside the scope reports ErrNotFound.
func (s *Store) Update(ctx context.Context, sc scope.Scope, id uuid.UUID, d Draft) (*Record, error) {
	pred, args, err := sc.Predicate()
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(
		`UPDATE %s SET slug = ?, title = ?, body = ?, status = ?, updated_at = CURRENT_TIMESTAMP
         WHERE id = ? AND %s`, s.table, pred)
	if _, err := s.db.ExecContext(ctx, q,
		append([]any{d.Slug, d.Title, d.Body, d.Status, id}, args...)...); err != nil {
		return nil, err
	}
	// The MySQL driver counts changed rows, not matched rows, so an
	// identical re-submit affects zero rows even when the target is
	// owned and present.  The scoped re-read decides between success
	// and not-found.
	return s.Get(ctx, sc, id)
}

// Delete removes one record within sc.  A target outside the scope
// reports ErrNotFound.
func (s *Store) Delete(ctx context.Context, sc scope.Scope, id uuid.UUID) error {
	pred, args, err := sc.Predicate()
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND %s`, s.table, pred)
	res, err := s.db.ExecContext(ctx, q, append([]any{id}, args...)...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
