// internal/resolver/resolver_test.go
//
// Covers host normalisation and the two-step lookup (custom domain,
// then system subdomain) against a mocked database.

package resolver

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/loomsites/loom/internal/metrics"
)

func TestNormalizeHost(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Shop.Example.COM", "shop.example.com"},
		{"shop.example.com:8443", "shop.example.com"},
		{"shop.example.com.", "shop.example.com"},
		{"  shop.example.com  ", "shop.example.com"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"[2001:db8::1]", "2001:db8::1"},
		{"localhost:3000", "localhost"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := NormalizeHost(c.in); got != c.want {
			t.Errorf("NormalizeHost(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "sqlmock"), mock
}

const (
	domainQuery    = `SELECT w.id AS website_id, w.tenant_id, w.subdomain, d.domain FROM website_domain d JOIN website w ON w.id = d.website_id JOIN tenant t ON t.id = w.tenant_id WHERE d.domain = \? AND t.status = 'active' LIMIT 1`
	subdomainQuery = `SELECT w.id AS website_id, w.tenant_id, w.subdomain FROM website w JOIN tenant t ON t.id = w.tenant_id WHERE w.subdomain = \? AND t.status = 'active' LIMIT 1`
)

func TestResolve_CustomDomain(t *testing.T) {
	db, mock := newMockDB(t)
	websiteID := uuid.New()
	tenantID := uuid.New()

	mock.ExpectQuery(domainQuery).
		WithArgs("shop.example.com").
		WillReturnRows(sqlmock.NewRows([]string{"website_id", "tenant_id", "subdomain", "domain"}).
			AddRow(websiteID.String(), tenantID.String(), "acme-shop", "shop.example.com"))

	r := New(db, "sites.loom.dev")
	res, err := r.Resolve(context.Background(), "Shop.Example.com:443")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !res.Matched {
		t.Fatal("expected a match")
	}
	if res.WebsiteID != websiteID || res.TenantID != tenantID {
		t.Fatalf("unexpected identity: %+v", res)
	}
	if res.PrimaryDomain != "shop.example.com" || res.SystemSubdomain != "acme-shop" {
		t.Fatalf("unexpected names: %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestResolve_SystemSubdomain(t *testing.T) {
	db, mock := newMockDB(t)
	websiteID := uuid.New()
	tenantID := uuid.New()

	// No custom-domain claim, then a subdomain hit.
	mock.ExpectQuery(domainQuery).
		WithArgs("acme-shop.sites.loom.dev").
		WillReturnRows(sqlmock.NewRows([]string{"website_id", "tenant_id", "subdomain", "domain"}))
	mock.ExpectQuery(subdomainQuery).
		WithArgs("acme-shop").
		WillReturnRows(sqlmock.NewRows([]string{"website_id", "tenant_id", "subdomain"}).
			AddRow(websiteID.String(), tenantID.String(), "acme-shop"))

	r := New(db, "sites.loom.dev")
	res, err := r.Resolve(context.Background(), "acme-shop.sites.loom.dev")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !res.Matched || res.WebsiteID != websiteID || res.TenantID != tenantID {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.PrimaryDomain != "" {
		t.Fatalf("subdomain match should carry no primary domain: %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestResolve_Miss(t *testing.T) {
	db, mock := newMockDB(t)

	// Outside the base domain only the custom-domain lookup runs.
	mock.ExpectQuery(domainQuery).
		WithArgs("nobody.example.org").
		WillReturnRows(sqlmock.NewRows([]string{"website_id", "tenant_id", "subdomain", "domain"}))

	r := New(db, "sites.loom.dev")
	res, err := r.Resolve(context.Background(), "nobody.example.org")
	if err != nil {
		t.Fatalf("a miss is not an error, got: %v", err)
	}
	if res.Matched {
		t.Fatalf("unexpected match: %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestResolve_EmptyHostSkipsLookup(t *testing.T) {
	db, mock := newMockDB(t)
	r := New(db, "sites.loom.dev")

	total := testutil.ToFloat64(metrics.HostResolveTotal)
	miss := testutil.ToFloat64(metrics.HostResolveMissTotal)

	res, err := r.Resolve(context.Background(), "")
	if err != nil || res.Matched {
		t.Fatalf("Resolve(\"\") = %+v, %v", res, err)
	}
	// Not a lookup attempt: neither instrument moves, so misses can
	// never exceed the lookup total.
	if got := testutil.ToFloat64(metrics.HostResolveTotal); got != total {
		t.Fatalf("lookup total moved on an empty host: %v → %v", total, got)
	}
	if got := testutil.ToFloat64(metrics.HostResolveMissTotal); got != miss {
		t.Fatalf("miss total moved on an empty host: %v → %v", miss, got)
	}

	// A real unmatched host counts once on each side.
	mock.ExpectQuery(domainQuery).
		WithArgs("ghost.example.org").
		WillReturnRows(sqlmock.NewRows([]string{"website_id", "tenant_id", "subdomain", "domain"}))
	if _, err := r.Resolve(context.Background(), "ghost.example.org"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := testutil.ToFloat64(metrics.HostResolveTotal); got != total+1 {
		t.Fatalf("lookup total = %v, want %v", got, total+1)
	}
	if got := testutil.ToFloat64(metrics.HostResolveMissTotal); got != miss+1 {
		t.Fatalf("miss total = %v, want %v", got, miss+1)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSubdomainOf(t *testing.T) {
	r := New(nil, "sites.loom.dev")

	if sub, ok := r.subdomainOf("acme.sites.loom.dev"); !ok || sub != "acme" {
		t.Fatalf("got %q, %v", sub, ok)
	}
	// The bare base domain belongs to nobody.
	if _, ok := r.subdomainOf("sites.loom.dev"); ok {
		t.Fatal("bare base domain must not match")
	}
	if _, ok := r.subdomainOf("acme.other.dev"); ok {
		t.Fatal("host outside the base domain must not match")
	}
	// Nested labels resolve as one subdomain string.
	if sub, ok := r.subdomainOf("a.b.sites.loom.dev"); !ok || sub != "a.b" {
		t.Fatalf("got %q, %v", sub, ok)
	}
}
