package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-core/api/responses"
	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
	"github.com/angelmondragon/storefront-core/pkg/logger"
)

// GuardCheck reports the decision for ?view= without enforcing it.
func GuardCheck(svc GuardService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := strings.TrimSpace(r.URL.Query().Get("view"))
		if view == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"view": "is required"}))
			return
		}
		responses.WriteSuccess(w, svc.Guard(view))
	}
}
