// internal/website/repository.go
//
// Website and domain-claim query helpers.
//
// Context
// -------
// `ByID` backs selection-cookie validation; `ByTenant` backs the admin
// website list; `AddDomain`/`RemoveDomain` mutate custom domain claims
// (the caller invalidates the resolver cache afterwards).  Resolution
// lookups live in internal/resolver, which joins these tables directly
// so a miss costs one indexed read.
//
// Notes
// -----
// • RemoveDomain is tenant-checked at SQL level: a domain owned by a
//   different tenant reports zero rows, which callers surface as
//   not-found.  Existence is never revealed across tenants.
// • Oxford commas, two spaces after periods.
package website

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a website or domain row is absent or
// belongs to a different tenant.
var ErrNotFound = errors.New("website not found")

// ByID fetches a single website row by primary key.
func ByID(ctx context.Context, db *sqlx.DB, id uuid.UUID) (*Record, error) {
	const q = `
        SELECT id, tenant_id, name, subdomain, created_at, updated_at
        FROM   website
        WHERE  id = ?
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// OwnedBy fetches a website only when it belongs to tenantID.  A website
// under another tenant reads as not-found.
func OwnedBy(ctx context.Context, db *sqlx.DB, id, tenantID uuid.UUID) (*Record, error) {
	const q = `
        SELECT id, tenant_id, name, subdomain, created_at, updated_at
        FROM   website
        WHERE  id = ? AND tenant_id = ?
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, id, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ByTenant lists every website owned by one tenant.
func ByTenant(ctx context.Context, db *sqlx.DB, tenantID uuid.UUID) ([]Record, error) {
	const q = `
        SELECT id, tenant_id, name, subdomain, created_at, updated_at
        FROM   website
        WHERE  tenant_id = ?
        ORDER  BY created_at`
	var rows []Record
	if err := db.SelectContext(ctx, &rows, q, tenantID); err != nil {
		return nil, err
	}
	return rows, nil
}

// DomainsByWebsite lists the custom domains claimed by one website.
func DomainsByWebsite(ctx context.Context, db *sqlx.DB, websiteID uuid.UUID) ([]Domain, error) {
	const q = `
        SELECT domain, website_id, tenant_id, created_at
        FROM   website_domain
        WHERE  website_id = ?
        ORDER  BY domain`
	var rows []Domain
	if err := db.SelectContext(ctx, &rows, q, websiteID); err != nil {
		return nil, err
	}
	return rows, nil
}

// AddDomain claims a custom domain for a website.  The domain is stored
// lower-cased; global uniqueness is enforced by the primary key, so a
// second claim fails with a duplicate-key error from the driver.
func AddDomain(ctx context.Context, db *sqlx.DB, d Domain) error {
	const q = `
        INSERT INTO website_domain (domain, website_id, tenant_id)
        VALUES (?, ?, ?)`
	_, err := db.ExecContext(ctx, q, strings.ToLower(d.Domain), d.WebsiteID, d.TenantID)
	return err
}

// RemoveDomain drops a domain claim.  The tenant condition keeps one
// tenant from releasing another tenant's domain; zero rows affected is
// reported as ErrNotFound.
func RemoveDomain(ctx context.Context, db *sqlx.DB, tenantID uuid.UUID, domain string) error {
	const q = `
        DELETE FROM website_domain
        WHERE  domain = ? AND tenant_id = ?`
	res, err := db.ExecContext(ctx, q, strings.ToLower(domain), tenantID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
