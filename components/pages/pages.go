// components/pages/pages.go
//
// Admin CRUD for the page collection.
//
// Context
// -------
// Exemplar of the scoped-collection contract: every handler pulls the
// request Scope built by the middleware and hands it to the record
// store, which applies the mandatory tenant/website filter.  Client
// payloads carry content fields only; scope tags are stamped
// server-side.  Mutations additionally pass the RBAC check for the
// "pages" component.
//
//------------------------------------------------------------------------------

package pages

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/loomsites/loom/internal/acl"
	"github.com/loomsites/loom/internal/component"
	"github.com/loomsites/loom/internal/record"
	"github.com/loomsites/loom/internal/scope"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component serves the protected page API.
type Component struct {
	db    *sqlx.DB
	store *record.Store
}

// New constructs the component over the page collection.
func New(db *sqlx.DB) (*Component, error) {
	store, err := record.NewStore(db, "page")
	if err != nil {
		return nil, err
	}
	return &Component{db: db, store: store}, nil
}

/*────────────────── component.Component methods ───────────────────────────*/

func (c *Component) Name() string    { return "pages" }
func (c *Component) Protected() bool { return true }

// Routes builds and returns the component router.  Reads require only
// an authenticated scope; writes also need the pages/edit permission.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handleList)
	r.Get("/{id}", c.handleGet)

	r.Group(func(r chi.Router) {
		r.Use(acl.RequirePermission(c.db, "pages", "edit"))
		r.Post("/", c.handleCreate)
		r.Put("/{id}", c.handleUpdate)
		r.Delete("/{id}", c.handleDelete)
	})
	return r
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleList(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope.FromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	rows, err := c.store.List(r.Context(), sc)
	if err != nil {
		zap.L().Error("page list failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError)
		return
	}

	out := make([]map[string]any, 0, len(rows))
	for i := range rows {
		out = append(out, recordJSON(&rows[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "pages": out})
}

func (c *Component) handleGet(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope.FromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad request"})
		return
	}

	rec, err := c.store.Get(r.Context(), sc, id)
	if err != nil {
		c.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "page": recordJSON(rec)})
}

func (c *Component) handleCreate(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope.FromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var d record.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad request"})
		return
	}

	rec, err := c.store.Create(r.Context(), sc, d)
	if err != nil {
		c.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "page": recordJSON(rec)})
}

func (c *Component) handleUpdate(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope.FromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad request"})
		return
	}

	var d record.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad request"})
		return
	}

	rec, err := c.store.Update(r.Context(), sc, id, d)
	if err != nil {
		c.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "page": recordJSON(rec)})
}

func (c *Component) handleDelete(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope.FromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad request"})
		return
	}

	if err := c.store.Delete(r.Context(), sc, id); err != nil {
		c.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

// writeStoreError maps store failures to HTTP.  Missing and cross-tenant
// targets are indistinguishable not-founds; a missing tenant id is a
// scoping-contract violation and reads as a server bug.
func (c *Component) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, record.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "not found"})
	case errors.Is(err, scope.ErrMissingTenant):
		zap.L().Error("scoping contract violated", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError)
	default:
		zap.L().Error("page store failure", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError)
	}
}

func recordJSON(rec *record.Record) map[string]any {
	out := map[string]any{
		"id":        rec.ID.String(),
		"tenantId":  rec.TenantID.String(),
		"slug":      rec.Slug,
		"title":     rec.Title,
		"body":      rec.Body,
		"status":    rec.Status,
		"createdAt": rec.CreatedAt,
		"updatedAt": rec.UpdatedAt,
	}
	if rec.WebsiteID.Valid {
		out["websiteId"] = rec.WebsiteID.UUID.String()
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
