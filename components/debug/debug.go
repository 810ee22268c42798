// components/debug/debug.go
//
// Ops component that echoes the caller's resolved identity, scope, and
// request metadata.  Handy when diagnosing why a selection or domain
// claim is not taking effect.
package debug

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/loomsites/loom/internal/auth"
	"github.com/loomsites/loom/internal/component"
	"github.com/loomsites/loom/internal/requestinfo"
	"github.com/loomsites/loom/internal/scope"
	"github.com/loomsites/loom/internal/tenant"
)

var _ component.Component = (*Component)(nil)

// Component serves the protected debug endpoint.
type Component struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Component { return &Component{db: db} }

func (c *Component) Name() string    { return "debug" }
func (c *Component) Protected() bool { return true }

func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handler)
	return r
}

// handler writes a JSON blob with selected context fields.
func (c *Component) handler(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"host": r.Host,
		"path": r.URL.Path,
		"ip":   clientIP(r),
		"ua":   r.UserAgent(),
	}

	if ident, ok := auth.FromContext(r.Context()); ok {
		out["user"] = ident.Email
		out["tenant"] = ident.TenantID.String()
		if rec, err := tenant.ByID(r.Context(), c.db, ident.TenantID); err == nil {
			out["tenantName"] = rec.Name
			out["tenantStatus"] = rec.Status
			out["tenantPlan"] = rec.Plan
		}
	}
	if sc, ok := scope.FromContext(r.Context()); ok {
		out["tenantWide"] = sc.Kind() == scope.TenantWide
		if sc.Kind() == scope.WebsiteScoped {
			out["website"] = sc.WebsiteID.String()
		}
	}
	if info := requestinfo.FromContext(r.Context()); info != nil {
		out["uaParsed"] = info.UA
		out["geo"] = info.Geo
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

// clientIP grabs the remote address without port.
func clientIP(r *http.Request) string {
	h, _, _ := net.SplitHostPort(r.RemoteAddr)
	return h
}
