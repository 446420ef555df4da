package middleware

import (
	"net/http"

	"github.com/angelmondragon/storefront-core/api/responses"
	"github.com/angelmondragon/storefront-core/internal/guard"
	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
	"github.com/angelmondragon/storefront-core/pkg/logger"
)

type viewGuard interface {
	Guard(view string) guard.Decision
}

// RequireView gates a restricted view. RedirectToLogin renders 401 and
// RedirectHome renders 403; both carry the redirect target in details.
func RequireView(g viewGuard, view string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := g.Guard(view)
			if err := DecisionError(decision); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// DecisionError is nil for Allow.
func DecisionError(decision guard.Decision) error {
	details := map[string]any{
		"decision": decision.Kind.String(),
		"location": decision.Location,
	}
	switch decision.Kind {
	case guard.KindAllow:
		return nil
	case guard.KindRedirectToLogin:
		details["role"] = decision.Role.String()
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required").WithDetails(details)
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "role required").WithDetails(details)
	}
}
