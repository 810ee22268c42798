// internal/scope/scope_test.go
//
// Unit-tests for the Scope value and its filter predicate.
//
// The predicate is the security boundary of the whole platform, so the
// two visibility branches are pinned down exactly:
//
//   • WebsiteScoped → tenant match AND (tenant-wide fallback OR website match)
//   • TenantWide    → tenant match AND no website tag
//   • zero tenant   → ErrMissingTenant, no SQL produced

package scope

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestPredicate_WebsiteScoped(t *testing.T) {
	tenantID := uuid.New()
	websiteID := uuid.New()
	sc := ForWebsite(tenantID, websiteID)

	if sc.Kind() != WebsiteScoped {
		t.Fatalf("Kind() = %v, want WebsiteScoped", sc.Kind())
	}

	pred, args, err := sc.Predicate()
	if err != nil {
		t.Fatalf("Predicate error: %v", err)
	}
	want := "tenant_id = ? AND (website_id IS NULL OR website_id = ?)"
	if pred != want {
		t.Fatalf("predicate = %q, want %q", pred, want)
	}
	if len(args) != 2 || args[0] != tenantID || args[1] != websiteID {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestPredicate_TenantWide(t *testing.T) {
	tenantID := uuid.New()
	sc := TenantOnly(tenantID)

	if sc.Kind() != TenantWide {
		t.Fatalf("Kind() = %v, want TenantWide", sc.Kind())
	}

	pred, args, err := sc.Predicate()
	if err != nil {
		t.Fatalf("Predicate error: %v", err)
	}
	// A context without a website selection must not see
	// website-specific records.
	want := "tenant_id = ? AND website_id IS NULL"
	if pred != want {
		t.Fatalf("predicate = %q, want %q", pred, want)
	}
	if len(args) != 1 || args[0] != tenantID {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestPredicate_MissingTenant(t *testing.T) {
	var sc Scope // zero value: no tenant

	if _, _, err := sc.Predicate(); !errors.Is(err, ErrMissingTenant) {
		t.Fatalf("err = %v, want ErrMissingTenant", err)
	}
	if err := sc.Validate(); !errors.Is(err, ErrMissingTenant) {
		t.Fatalf("Validate err = %v, want ErrMissingTenant", err)
	}
}

func TestWithScope_RoundTrip(t *testing.T) {
	sc := ForWebsite(uuid.New(), uuid.New())
	ctx := WithScope(context.Background(), sc)

	got, ok := FromContext(ctx)
	if !ok || got != sc {
		t.Fatalf("FromContext = %v, %v; want %v, true", got, ok, sc)
	}

	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("FromContext on bare context reported ok")
	}
}
