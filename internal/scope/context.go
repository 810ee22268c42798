// internal/scope/context.go
//
// context.Context carriage for Scope.  The middleware stores the value
// once per request; handlers retrieve it and pass it on explicitly.
package scope

import "context"

// ctxKey is unexported to avoid context-key collisions.
type ctxKey struct{}

// WithScope returns a new context carrying s.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext extracts the Scope stored by the middleware.  ok == false
// when no scope has been attached.
func FromContext(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(ctxKey{}).(Scope)
	return s, ok
}
