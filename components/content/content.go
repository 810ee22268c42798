// components/content/content.go
//
// Public content serving, keyed on the Host header.
//
// Context
// -------
// This is the unauthenticated path: no session, so the Scope comes
// entirely from host resolution — tenant and website of whichever site
// claims the name.  An unresolved host renders the same generic
// not-found page as a missing slug; visitors learn nothing about which
// hosts exist.  The scoped filter still applies, so a website serves
// its own pages plus its tenant's site-wide fallbacks and nothing else.
//
//------------------------------------------------------------------------------

package content

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/loomsites/loom/internal/record"
	"github.com/loomsites/loom/internal/resolver"
	"github.com/loomsites/loom/internal/scope"
	"github.com/loomsites/loom/internal/tenant"
)

// StatusPublished is the only record status served publicly.
const StatusPublished = "published"

var page = template.Must(template.New("page").Parse(`<!doctype html>
<title>{{if .SiteName}}{{.Title}} – {{.SiteName}}{{else}}{{.Title}}{{end}}</title>
<article>
<h1>{{.Title}}</h1>
{{.Body}}
</article>`))

var notFoundPage = []byte(`<!doctype html>
<title>Not found</title>
<h1>Not found</h1>`)

// Handler serves public pages for resolved hosts.  Mounted as the
// router's NotFound fallback so explicit routes keep precedence.
func Handler(res resolver.HostResolver, db *sqlx.DB) http.HandlerFunc {
	store, err := record.NewStore(db, "page")
	if err != nil {
		// Static collection name; only reachable through a code change.
		panic(err)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}

		out, err := res.Resolve(r.Context(), r.Host)
		if err != nil {
			zap.L().Error("content host resolve failed",
				zap.String("host", r.Host), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError),
				http.StatusInternalServerError)
			return
		}
		if !out.Matched {
			renderNotFound(w)
			return
		}

		sc := scope.ForWebsite(out.TenantID, out.WebsiteID)

		slug := strings.Trim(r.URL.Path, "/")
		if slug == "" {
			slug = "home"
		}

		rec, err := store.BySlug(r.Context(), sc, slug)
		if err != nil {
			if errors.Is(err, record.ErrNotFound) {
				renderNotFound(w)
				return
			}
			zap.L().Error("content lookup failed", zap.String("slug", slug), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError),
				http.StatusInternalServerError)
			return
		}
		if rec.Status != StatusPublished {
			renderNotFound(w)
			return
		}

		// Branding is best-effort: a settings failure costs the site
		// name, not the page.
		var siteName string
		if settings, err := tenant.SettingsByTenant(r.Context(), db, out.TenantID); err == nil {
			siteName = settings["site_name"]
		} else {
			zap.L().Debug("tenant settings unavailable",
				zap.String("tenant", out.TenantID.String()), zap.Error(err))
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = page.Execute(w, map[string]any{
			"Title":    rec.Title,
			"SiteName": siteName,
			"Body":     template.HTML(rec.Body),
		})
	}
}

func renderNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(notFoundPage)
}
