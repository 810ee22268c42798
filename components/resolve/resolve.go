// components/resolve/resolve.go
//
// Host-resolution boundary.
//
// GET /resolve?host=<hostname[:port]> answers which website claims the
// host.  A non-matching host is a normal outcome: 200 with
// `matched:false`, never an error status, so edge proxies and the
// onboarding UI can probe candidate domains safely.
//
//------------------------------------------------------------------------------

package resolve

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/loomsites/loom/internal/component"
	"github.com/loomsites/loom/internal/resolver"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component serves the public resolve endpoint.
type Component struct {
	res resolver.HostResolver
}

// New constructs the component over any HostResolver (cached or not).
func New(res resolver.HostResolver) *Component {
	return &Component{res: res}
}

/*────────────────── component.Component methods ───────────────────────────*/

func (c *Component) Name() string    { return "resolve" }
func (c *Component) Protected() bool { return false }

// Routes builds and returns the component router.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handleResolve)
	return r
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

// response is the wire shape of one lookup outcome.
type response struct {
	OK              bool   `json:"ok"`
	Matched         bool   `json:"matched"`
	WebsiteID       string `json:"websiteId,omitempty"`
	TenantID        string `json:"tenantId,omitempty"`
	SystemSubdomain string `json:"systemSubdomain,omitempty"`
	PrimaryDomain   string `json:"primaryDomain,omitempty"`
}

func (c *Component) handleResolve(w http.ResponseWriter, r *http.Request) {
	host := r.URL.Query().Get("host")

	out, err := c.res.Resolve(r.Context(), host)
	if err != nil {
		zap.L().Error("host resolve failed", zap.String("host", host), zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(response{OK: false})
		return
	}

	resp := response{OK: true, Matched: out.Matched}
	if out.Matched {
		resp.WebsiteID = out.WebsiteID.String()
		resp.TenantID = out.TenantID.String()
		resp.SystemSubdomain = out.SystemSubdomain
		resp.PrimaryDomain = out.PrimaryDomain
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
