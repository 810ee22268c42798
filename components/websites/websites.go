// components/websites/websites.go
//
// Admin website management: list, selection, and custom-domain claims.
//
// Context
// -------
// The selection endpoint is the only writer of the durable
// `current_website_id` cookie, and it writes only after verifying the
// website belongs to the caller's tenant.  A cross-tenant website id —
// however it was obtained — answers not-found and leaves the stored
// cookie untouched, so existence is never revealed across tenants.
// Domain mutations invalidate the resolver cache for the affected host
// so a released domain stops resolving immediately.
//
//------------------------------------------------------------------------------

package websites

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/loomsites/loom/internal/auth"
	"github.com/loomsites/loom/internal/component"
	"github.com/loomsites/loom/internal/scope"
	"github.com/loomsites/loom/internal/website"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Invalidator is the slice of the resolver cache this component needs.
type Invalidator interface {
	Invalidate(host string)
}

// Component serves the protected website-management API.
type Component struct {
	db    *sqlx.DB
	cache Invalidator
}

// New constructs the component.  cache may be nil when the resolver
// runs uncached.
func New(db *sqlx.DB, cache Invalidator) *Component {
	return &Component{db: db, cache: cache}
}

/*────────────────── component.Component methods ───────────────────────────*/

func (c *Component) Name() string    { return "websites" }
func (c *Component) Protected() bool { return true }

// Routes builds and returns the component router.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handleList)
	r.Post("/select", c.handleSelect)
	r.Post("/{id}/domains", c.handleAddDomain)
	r.Delete("/{id}/domains/{domain}", c.handleRemoveDomain)
	return r
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	rows, err := website.ByTenant(r.Context(), c.db, ident.TenantID)
	if err != nil {
		zap.L().Error("website list failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError)
		return
	}

	out := make([]map[string]any, 0, len(rows))
	for _, rec := range rows {
		out = append(out, map[string]any{
			"id":        rec.ID.String(),
			"name":      rec.Name,
			"subdomain": rec.Subdomain,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "websites": out})
}

// handleSelect persists the caller's "current website" choice.
func (c *Component) handleSelect(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var payload struct {
		WebsiteID string `json:"websiteId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad request"})
		return
	}
	id, err := uuid.Parse(payload.WebsiteID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad request"})
		return
	}

	rec, err := website.OwnedBy(r.Context(), c.db, id, ident.TenantID)
	if err != nil {
		if errors.Is(err, website.ErrNotFound) {
			// Cross-tenant or unknown: not-found, and the stored cookie
			// stays as it was.
			writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "not found"})
			return
		}
		zap.L().Error("website select lookup failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError)
		return
	}

	scope.SetSelection(w, r, rec.ID)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "websiteId": rec.ID.String()})
}

func (c *Component) handleAddDomain(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad request"})
		return
	}

	var payload struct {
		Domain string `json:"domain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad request"})
		return
	}
	domain := strings.ToLower(strings.TrimSpace(payload.Domain))
	if domain == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad request"})
		return
	}

	// Ownership first: a foreign website id reads as not-found.
	rec, err := website.OwnedBy(r.Context(), c.db, id, ident.TenantID)
	if err != nil {
		if errors.Is(err, website.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "not found"})
			return
		}
		zap.L().Error("domain add lookup failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError)
		return
	}

	err = website.AddDomain(r.Context(), c.db, website.Domain{
		Domain:    domain,
		WebsiteID: rec.ID,
		TenantID:  ident.TenantID,
	})
	if err != nil {
		// Duplicate key means another website already claims the name;
		// anything else is a store failure.
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == 1062 {
			writeJSON(w, http.StatusConflict, map[string]any{"ok": false, "error": "domain unavailable"})
			return
		}
		zap.L().Error("domain add failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError)
		return
	}

	if c.cache != nil {
		c.cache.Invalidate(domain)
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "domain": domain})
}

func (c *Component) handleRemoveDomain(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	domain := strings.ToLower(chi.URLParam(r, "domain"))
	if err := website.RemoveDomain(r.Context(), c.db, ident.TenantID, domain); err != nil {
		if errors.Is(err, website.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "not found"})
			return
		}
		zap.L().Error("domain remove failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError)
		return
	}

	if c.cache != nil {
		c.cache.Invalidate(domain)
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
