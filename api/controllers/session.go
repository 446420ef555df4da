package controllers

import (
	"errors"
	"net/http"

	"github.com/angelmondragon/storefront-core/api/responses"
	"github.com/angelmondragon/storefront-core/api/validators"
	"github.com/angelmondragon/storefront-core/internal/session"
	"github.com/angelmondragon/storefront-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
	"github.com/angelmondragon/storefront-core/pkg/logger"
)

type loginRequest struct {
	Login  string `json:"login" validate:"required"`
	Secret string `json:"secret"`
	Role   string `json:"role" validate:"required,oneof=admin customer user"`
}

type sessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	Identity      *session.Identity `json:"identity,omitempty"`
}

func newSessionResponse(identity *session.Identity) sessionResponse {
	return sessionResponse{Authenticated: identity != nil, Identity: identity}
}

// SessionLogin verifies credentials for the requested role.
func SessionLogin(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		role, err := enums.ParseRole(payload.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed").
				WithDetails(map[string]string{"role": "is invalid"}))
			return
		}

		identity, err := svc.Login(r.Context(), payload.Login, payload.Secret, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, loginError(err))
			return
		}
		responses.WriteSuccess(w, newSessionResponse(&identity))
	}
}

func loginError(err error) error {
	var mismatch *session.CredentialMismatch
	if errors.As(err, &mismatch) {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid credentials").
			WithDetails(map[string]string{"reason": string(mismatch.Reason)})
	}
	return err
}

func SessionCurrent(svc SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, newSessionResponse(svc.CurrentIdentity()))
	}
}

func SessionLogout(svc SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.Logout(r.Context())
		responses.WriteSuccess(w, newSessionResponse(nil))
	}
}
