// internal/auth/session_test.go

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// issue signs a session for ident and returns the cookie it set.
func issue(t *testing.T, ident Identity) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
	if err := IssueSession(rec, req, testSecret, ident); err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", SessionCookie)
	return nil
}

func TestSession_RoundTrip(t *testing.T) {
	want := Identity{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Email:    "owner@acme.test",
	}
	c := issue(t, want)

	if !c.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	got, err := ParseSession(c.Value, testSecret)
	if err != nil {
		t.Fatalf("ParseSession: %v", err)
	}
	if got != want {
		t.Fatalf("identity = %+v, want %+v", got, want)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(c)
	ident, ok := SessionIdentity(req, testSecret)
	if !ok || ident != want {
		t.Fatalf("SessionIdentity = %+v, %v", ident, ok)
	}
}

func TestSession_TamperedTokenRejected(t *testing.T) {
	c := issue(t, Identity{UserID: uuid.New(), TenantID: uuid.New()})

	// Flip one character of the payload.
	raw := []byte(c.Value)
	mid := len(raw) / 2
	if raw[mid] == 'A' {
		raw[mid] = 'B'
	} else {
		raw[mid] = 'A'
	}
	if _, err := ParseSession(string(raw), testSecret); err == nil {
		t.Fatal("tampered token accepted")
	}
}

func TestSession_WrongSecretRejected(t *testing.T) {
	c := issue(t, Identity{UserID: uuid.New(), TenantID: uuid.New()})
	other := []byte("ffffffffffffffffffffffffffffffff")
	if _, err := ParseSession(c.Value, other); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestSessionIdentity_MissingCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if _, ok := SessionIdentity(req, testSecret); ok {
		t.Fatal("identity produced without a cookie")
	}
}
