// internal/scope/selection.go
//
// Durable "current website" selection cookie.
//
// Context
// -------
// Admins of a tenant that owns several websites pick one to work on; the
// choice survives the session via a plain cookie holding the website id.
// The cookie value is advisory only: the middleware re-validates tenant
// ownership on every request, and the select endpoint refuses to set the
// cookie for a website outside the caller's tenant.  A forged or stale
// value therefore degrades to "no selection", never to another tenant's
// data.
package scope

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SelectionCookie names the persisted website selection.
const SelectionCookie = "current_website_id"

// SelectionTTL is how long a selection survives without being refreshed.
const SelectionTTL = 30 * 24 * time.Hour

// SetSelection stores the selected website id.  Callers must verify
// tenant ownership before calling; this helper does not.
func SetSelection(w http.ResponseWriter, r *http.Request, websiteID uuid.UUID) {
	http.SetCookie(w, &http.Cookie{
		Name:     SelectionCookie,
		Value:    websiteID.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(SelectionTTL),
	})
}

// ClearSelection removes the selection cookie.
func ClearSelection(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SelectionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// SelectionFromRequest returns the website id named by the cookie, if
// present and well-formed.  A malformed value reads as "no selection".
func SelectionFromRequest(r *http.Request) (uuid.UUID, bool) {
	c, err := r.Cookie(SelectionCookie)
	if err != nil || c.Value == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
