// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"

	"github.com/loomsites/loom/internal/resolver"
)

// ForceHTTPS wraps h.  If the request is plain HTTP, the host is not
// “localhost”, and the resolver confirms a website claims the host, the
// wrapper issues a 308 Permanent Redirect to the HTTPS version of the
// same URL.  Otherwise it calls the next handler unchanged.
func ForceHTTPS(res resolver.HostResolver, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Already HTTPS or dev host → continue.
		if r.TLS != nil || resolver.NormalizeHost(r.Host) == "localhost" {
			h.ServeHTTP(w, r)
			return
		}

		// Only redirect hosts a website actually claims.
		if out, err := res.Resolve(r.Context(), r.Host); err == nil && out.Matched {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}

		// Unknown host → keep normal flow (likely 404 later).
		h.ServeHTTP(w, r)
	})
}
