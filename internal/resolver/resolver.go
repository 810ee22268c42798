// internal/resolver/resolver.go
//
// Host → website identity resolution.
//
// Context
// -------
// Public traffic reaches Loom addressed by name only.  The resolver maps
// a raw Host header to the website claiming it, in two steps:
//
//  1. Custom domain – exact match against `website_domain` (globally
//     unique, indexed).
//  2. System subdomain – when the host falls under the configured base
//     domain, match `<sub>.<base>` against `website.subdomain`.
//
// Websites of non-active tenants do not resolve.  A host matching
// nothing is a miss, not a fault: Result.Matched is false and the error
// is nil, so callers render a generic not-found.
//
// The resolver is read-only and mutates nothing; it is safe to call on
// every request.
//
// Notes
// -----
// • Duplicate domain claims are prevented by the `website_domain`
//   primary key, not re-adjudicated here.
// • Oxford commas, two spaces after periods.
package resolver

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/loomsites/loom/internal/metrics"
)

// Result reports the outcome of one host lookup.  When Matched is false
// all other fields are zero.
type Result struct {
	Matched         bool
	WebsiteID       uuid.UUID
	TenantID        uuid.UUID
	SystemSubdomain string
	PrimaryDomain   string
}

// HostResolver is the lookup contract shared by Resolver and Cache, so
// middleware and handlers accept either.
type HostResolver interface {
	Resolve(ctx context.Context, rawHost string) (Result, error)
}

// Resolver performs uncached lookups against the control-plane database.
type Resolver struct {
	db         *sqlx.DB
	baseDomain string
}

// New returns a Resolver keyed on baseDomain (e.g. "sites.loom.dev") for
// system-subdomain matching.
func New(db *sqlx.DB, baseDomain string) *Resolver {
	return &Resolver{db: db, baseDomain: strings.ToLower(baseDomain)}
}

// Resolve maps a raw Host header to a website.  An unmatched host
// returns a zero Result and nil error.
func (r *Resolver) Resolve(ctx context.Context, rawHost string) (Result, error) {
	// An empty host is not a lookup attempt; counting it as a miss
	// would let misses exceed the lookup total.
	host := NormalizeHost(rawHost)
	if host == "" {
		return Result{}, nil
	}

	metrics.HostResolveTotal.Inc()

	// 1. Custom domain.
	res, err := r.byDomain(ctx, host)
	if err != nil {
		return Result{}, err
	}
	if res.Matched {
		return res, nil
	}

	// 2. System subdomain under the base domain.
	if sub, ok := r.subdomainOf(host); ok {
		res, err = r.bySubdomain(ctx, sub)
		if err != nil {
			return Result{}, err
		}
		if res.Matched {
			return res, nil
		}
	}

	metrics.HostResolveMissTotal.Inc()
	return Result{}, nil
}

func (r *Resolver) byDomain(ctx context.Context, host string) (Result, error) {
	const q = `
        SELECT w.id AS website_id, w.tenant_id, w.subdomain, d.domain
        FROM   website_domain d
        JOIN   website w ON w.id = d.website_id
        JOIN   tenant  t ON t.id = w.tenant_id
        WHERE  d.domain = ? AND t.status = 'active'
        LIMIT  1`
	var row struct {
		WebsiteID uuid.UUID `db:"website_id"`
		TenantID  uuid.UUID `db:"tenant_id"`
		Subdomain string    `db:"subdomain"`
		Domain    string    `db:"domain"`
	}
	if err := r.db.GetContext(ctx, &row, q, host); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, nil
		}
		return Result{}, err
	}
	return Result{
		Matched:         true,
		WebsiteID:       row.WebsiteID,
		TenantID:        row.TenantID,
		SystemSubdomain: row.Subdomain,
		PrimaryDomain:   row.Domain,
	}, nil
}

func (r *Resolver) bySubdomain(ctx context.Context, sub string) (Result, error) {
	const q = `
        SELECT w.id AS website_id, w.tenant_id, w.subdomain
        FROM   website w
        JOIN   tenant  t ON t.id = w.tenant_id
        WHERE  w.subdomain = ? AND t.status = 'active'
        LIMIT  1`
	var row struct {
		WebsiteID uuid.UUID `db:"website_id"`
		TenantID  uuid.UUID `db:"tenant_id"`
		Subdomain string    `db:"subdomain"`
	}
	if err := r.db.GetContext(ctx, &row, q, sub); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, nil
		}
		return Result{}, err
	}
	return Result{
		Matched:         true,
		WebsiteID:       row.WebsiteID,
		TenantID:        row.TenantID,
		SystemSubdomain: row.Subdomain,
	}, nil
}

// subdomainOf extracts the label(s) in front of the base domain.  The
// bare base domain and hosts outside it report ok == false.
func (r *Resolver) subdomainOf(host string) (string, bool) {
	suffix := "." + r.baseDomain
	if r.baseDomain == "" || !strings.HasSuffix(host, suffix) {
		return "", false
	}
	sub := strings.TrimSuffix(host, suffix)
	if sub == "" {
		return "", false
	}
	return sub, true
}

// NormalizeHost canonicalises a raw Host header: the :port suffix is
// stripped (IPv6 literals included), the remainder lower-cased, and any
// trailing dot removed.  Empty input stays empty.
func NormalizeHost(raw string) string {
	h := strings.TrimSpace(raw)
	if h == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(h); err == nil {
		h = host
	}
	h = strings.TrimSuffix(strings.ToLower(h), ".")
	// SplitHostPort keeps brackets off; a bare bracketed literal without
	// a port still carries them.
	h = strings.TrimPrefix(strings.TrimSuffix(h, "]"), "[")
	return h
}
