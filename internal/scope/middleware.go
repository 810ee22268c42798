// internal/scope/middleware.go
//
// Admin-surface scope construction.
//
// Context
// -------
// Runs after the access guard, which guarantees an authenticated
// Identity on the context.  The middleware builds the request Scope:
// tenant id from the session, website id from the selection cookie —
// but only after re-verifying, against the store, that the selected
// website belongs to the session's tenant.  A selection that fails
// validation (forged, stale, or cross-tenant) is discarded and the
// request proceeds tenant-wide; it is never honored and never fatal.
package scope

import (
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/loomsites/loom/internal/auth"
	"github.com/loomsites/loom/internal/metrics"
	"github.com/loomsites/loom/internal/website"
)

// Middleware attaches the per-request Scope for admin handlers.
func Middleware(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := auth.FromContext(r.Context())
			if !ok {
				// Guard missing or misordered; refuse rather than run unscoped.
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			sc := TenantOnly(ident.TenantID)

			if sel, found := SelectionFromRequest(r); found {
				rec, err := website.OwnedBy(r.Context(), db, sel, ident.TenantID)
				switch {
				case err == nil:
					sc = ForWebsite(ident.TenantID, rec.ID)
				case errors.Is(err, website.ErrNotFound):
					// Cross-tenant or deleted selection: fall back to
					// tenant-wide, leave the cookie for the owner of the
					// browser to fix via the select endpoint.
					metrics.SelectionRejectedTotal.Inc()
					zap.L().Debug("website selection rejected",
						zap.String("tenant", ident.TenantID.String()),
						zap.String("selection", sel.String()))
				default:
					zap.L().Error("website selection lookup failed", zap.Error(err))
					http.Error(w, http.StatusText(http.StatusInternalServerError),
						http.StatusInternalServerError)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), sc)))
		})
	}
}
