package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-core/api/middleware"
	"github.com/angelmondragon/storefront-core/api/responses"
	"github.com/angelmondragon/storefront-core/pkg/logger"
)

// CheckoutComplete snapshots the cart into an order and empties the cart.
func CheckoutComplete(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.Checkout(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrdersList(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := svc.OrderHistory(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

// AdminDashboard is mounted behind the admin view guard. It lists the order
// count, total sales and the newest orders across all customers.
func AdminDashboard(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := svc.OrderOverview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"view":          "admin/dashboard",
			"identity":      middleware.IdentityFromContext(r.Context()),
			"stats":         overview.Stats,
			"recent_orders": overview.Recent,
		})
	}
}

// UserDashboard is mounted behind the customer view guard.
func UserDashboard(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := svc.OrderHistory(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"view":     "user/dashboard",
			"identity": middleware.IdentityFromContext(r.Context()),
			"orders":   history.Orders,
			"stats":    history.Stats,
		})
	}
}
