// components/resolve/resolve_test.go
//
// HTTP-level tests for the public resolve endpoint over a fake
// resolver: a matched host returns its identity, a miss is a normal
// 200 with matched:false.

package resolve

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/loomsites/loom/internal/resolver"
)

type fakeResolver struct {
	table map[string]resolver.Result
}

func (f *fakeResolver) Resolve(_ context.Context, host string) (resolver.Result, error) {
	return f.table[resolver.NormalizeHost(host)], nil
}

func TestResolve_Match(t *testing.T) {
	websiteID := uuid.New()
	tenantID := uuid.New()
	c := New(&fakeResolver{table: map[string]resolver.Result{
		"shop.example.com": {
			Matched:         true,
			WebsiteID:       websiteID,
			TenantID:        tenantID,
			SystemSubdomain: "acme-shop",
			PrimaryDomain:   "shop.example.com",
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/?host=Shop.Example.com:443", nil)
	rec := httptest.NewRecorder()
	c.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		OK              bool   `json:"ok"`
		Matched         bool   `json:"matched"`
		WebsiteID       string `json:"websiteId"`
		TenantID        string `json:"tenantId"`
		SystemSubdomain string `json:"systemSubdomain"`
		PrimaryDomain   string `json:"primaryDomain"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.OK || !body.Matched {
		t.Fatalf("body = %+v", body)
	}
	if body.WebsiteID != websiteID.String() || body.TenantID != tenantID.String() {
		t.Fatalf("identity wrong: %+v", body)
	}
	if body.SystemSubdomain != "acme-shop" || body.PrimaryDomain != "shop.example.com" {
		t.Fatalf("names wrong: %+v", body)
	}
}

func TestResolve_MissIsOK(t *testing.T) {
	c := New(&fakeResolver{table: map[string]resolver.Result{}})

	req := httptest.NewRequest(http.MethodGet, "/?host=nobody.example.org", nil)
	rec := httptest.NewRecorder()
	c.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("a miss must not be an error status, got %d", rec.Code)
	}
	var body struct {
		OK        bool   `json:"ok"`
		Matched   bool   `json:"matched"`
		WebsiteID string `json:"websiteId"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.OK || body.Matched || body.WebsiteID != "" {
		t.Fatalf("body = %+v", body)
	}
}
