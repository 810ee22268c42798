// internal/scope/scope.go
//
// Per-request tenant/website scope.
//
// Context
// -------
// Every data operation in Loom is attributed to exactly one tenant and,
// optionally, one website.  The Scope value carries that attribution.  It
// is built once per request (from the session on admin paths, from host
// resolution on public paths) and passed explicitly to every repository
// call.  Nothing reads scope from ambient global state.
//
// The two visibility rules are represented as an explicit tagged variant
// rather than ad hoc nil checks:
//
//   - TenantWide      – no website selected.  Only records carrying no
//     website id are visible; website-specific records are hidden so a
//     tenant owning several sites never leaks one site's content into a
//     site-less view.
//   - WebsiteScoped   – a website is selected.  Records tagged with that
//     website are visible, plus tenant-wide fallback records.
//
// Notes
// -----
// • A Scope with a zero TenantID is a caller bug, not a runtime condition.
//   Predicate refuses to build SQL for it so an unscoped query can never
//   reach the database.
// • Oxford commas, two spaces after periods.
package scope

import (
	"errors"

	"github.com/google/uuid"
)

// Kind tags the two visibility branches of the filter rule.
type Kind int

const (
	// TenantWide – no website selection; strict tenant-wide view.
	TenantWide Kind = iota
	// WebsiteScoped – one website selected; website records plus
	// tenant-wide fallbacks.
	WebsiteScoped
)

// ErrMissingTenant marks a scoping-contract violation: a data operation
// was attempted without a tenant id.  Callers must treat this as a bug,
// never as a recoverable runtime error.
var ErrMissingTenant = errors.New("scope: tenant id is required")

// Scope is the resolved {tenant, website?} pair for one request.  The
// zero WebsiteID means tenant-wide, not unscoped.
type Scope struct {
	TenantID  uuid.UUID
	WebsiteID uuid.UUID
}

// TenantOnly returns a tenant-wide Scope.
func TenantOnly(tenantID uuid.UUID) Scope {
	return Scope{TenantID: tenantID}
}

// ForWebsite returns a website-scoped Scope.
func ForWebsite(tenantID, websiteID uuid.UUID) Scope {
	return Scope{TenantID: tenantID, WebsiteID: websiteID}
}

// Kind reports which filter branch applies.
func (s Scope) Kind() Kind {
	if s.WebsiteID == uuid.Nil {
		return TenantWide
	}
	return WebsiteScoped
}

// Validate rejects a Scope that is missing its tenant id.
func (s Scope) Validate() error {
	if s.TenantID == uuid.Nil {
		return ErrMissingTenant
	}
	return nil
}

// Predicate renders the mandatory SQL filter for this Scope.  The clause
// is meant to be appended to a WHERE alongside other conditions:
//
//	tenant_id = ? AND website_id IS NULL                      (TenantWide)
//	tenant_id = ? AND (website_id IS NULL OR website_id = ?)  (WebsiteScoped)
//
// It returns ErrMissingTenant when the Scope has no tenant, so a query
// can never execute unscoped.
func (s Scope) Predicate() (string, []any, error) {
	if err := s.Validate(); err != nil {
		return "", nil, err
	}
	switch s.Kind() {
	case WebsiteScoped:
		return "tenant_id = ? AND (website_id IS NULL OR website_id = ?)",
			[]any{s.TenantID, s.WebsiteID}, nil
	default:
		return "tenant_id = ? AND website_id IS NULL",
			[]any{s.TenantID}, nil
	}
}
