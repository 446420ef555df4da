package middleware

import (
	"net/http"

	"github.com/angelmondragon/storefront-core/internal/session"
	"github.com/angelmondragon/storefront-core/pkg/logger"
)

type identitySource interface {
	CurrentIdentity() *session.Identity
}

// Identity attaches the session's current identity to the request context
// and to the log fields.
func Identity(src identitySource, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := src.CurrentIdentity()
			ctx := WithIdentity(r.Context(), identity)
			if logg != nil && identity != nil {
				ctx = logg.WithIdentityID(ctx, identity.ID)
				ctx = logg.WithActorRole(ctx, identity.Role.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
