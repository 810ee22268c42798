// components/auth/auth.go
//
// Sign-in component: the entry point the access guard redirects to.
//
// The page is a deliberately plain HTML form; admin chrome lives in the
// dashboard layer, not here.  POST verifies credentials against the
// user table and issues the signed session cookie; failures re-render
// the form without distinguishing unknown email from wrong password.
//
//------------------------------------------------------------------------------

package auth

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/loomsites/loom/internal/auth"
	"github.com/loomsites/loom/internal/component"
	"github.com/loomsites/loom/internal/scope"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates the sign-in flow.
type Component struct {
	db     *sqlx.DB
	secret []byte
}

// New constructs the component over the control-plane pool and the
// session-signing secret.
func New(db *sqlx.DB, secret []byte) *Component {
	return &Component{db: db, secret: secret}
}

/*────────────────── component.Component methods ───────────────────────────*/

func (c *Component) Name() string    { return "auth" }
func (c *Component) Protected() bool { return false }

// Routes builds and returns the component router.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/signin", c.handleSignInGET)
	r.Post("/signin", c.handleSignInPOST)
	r.Post("/signout", c.handleSignOut)
	return r
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

var signInPage = template.Must(template.New("signin").Parse(`<!doctype html>
<title>Sign in</title>
<h1>Sign in</h1>
{{if .Error}}<p>{{.Error}}</p>{{end}}
<form method="post" action="/auth/signin?next={{.Next}}">
  <label>Email <input type="email" name="email" required></label>
  <label>Password <input type="password" name="password" required></label>
  <button type="submit">Sign in</button>
</form>`))

func (c *Component) handleSignInGET(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, "")
}

func (c *Component) handleSignInPOST(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")

	ident, err := auth.VerifyCredentials(r.Context(), c.db, email, password)
	if err != nil {
		if !errors.Is(err, auth.ErrBadCredentials) {
			zap.L().Error("credential check failed", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError),
				http.StatusInternalServerError)
			return
		}
		c.render(w, r, "Incorrect email or password.")
		return
	}

	if err := auth.IssueSession(w, r, c.secret, ident); err != nil {
		zap.L().Error("session issue failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, safeNext(r), http.StatusSeeOther)
}

func (c *Component) handleSignOut(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	scope.ClearSelection(w)
	http.Redirect(w, r, "/auth/signin", http.StatusSeeOther)
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

func (c *Component) render(w http.ResponseWriter, r *http.Request, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = signInPage.Execute(w, map[string]string{
		"Error": errMsg,
		"Next":  url.QueryEscape(safeNext(r)),
	})
}

// safeNext returns the post-sign-in destination, restricted to local
// paths so the redirect cannot be pointed off-site.
func safeNext(r *http.Request) string {
	next := r.URL.Query().Get("next")
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/admin"
	}
	return next
}
