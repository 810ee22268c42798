// internal/auth/identity.go
//
// Authenticated identity and its context carriage.
//
// The guard middleware attaches an Identity after session verification;
// downstream code (scope construction, RBAC checks, handlers) retrieves
// it without re-parsing the cookie.
package auth

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated principal: a user bound to one tenant.
type Identity struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Email    string
}

// identityKey is unexported to avoid context-key collisions.
type identityKey struct{}

// WithIdentity returns a new context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext extracts the Identity set by the guard.  ok == false when
// the request is unauthenticated.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
