package middleware

import (
	"context"

	"github.com/angelmondragon/storefront-core/internal/session"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// WithIdentity injects the current identity into the context.
func WithIdentity(ctx context.Context, identity *session.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, identity)
}

// IdentityFromContext is nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *session.Identity {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxIdentity).(*session.Identity); ok {
		return v
	}
	return nil
}

func RoleFromContext(ctx context.Context) string {
	if identity := IdentityFromContext(ctx); identity != nil {
		return identity.Role.String()
	}
	return ""
}
