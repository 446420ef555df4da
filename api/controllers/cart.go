package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-core/api/responses"
	"github.com/angelmondragon/storefront-core/api/validators"
	"github.com/angelmondragon/storefront-core/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
	"github.com/angelmondragon/storefront-core/pkg/logger"
)

type addItemRequest struct {
	ID        string          `json:"id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Image     string          `json:"image"`
	Quantity  *int            `json:"quantity" validate:"omitempty,max=1000000"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=1000000"`
}

type cartLineResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type cartResponse struct {
	Lines     []cartLineResponse `json:"lines"`
	ItemCount int                `json:"item_count"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Changed   *bool              `json:"changed,omitempty"`
}

func newCartResponse(svc CartService, changed *bool) cartResponse {
	lines := svc.CartLines()
	out := cartResponse{
		Lines:     make([]cartLineResponse, 0, len(lines)),
		ItemCount: svc.CartItemCount(),
		Subtotal:  svc.CartSubtotal(),
		Changed:   changed,
	}
	for _, line := range lines {
		out.Lines = append(out.Lines, cartLineResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Image:     line.Image,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal(),
		})
	}
	return out
}

// CartFetch returns the current cart with its derived totals.
func CartFetch(svc CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, newCartResponse(svc, nil))
	}
}

// CartAddItem adds a product; quantity defaults to 1. A quantity below 1 is
// accepted and ignored.
func CartAddItem(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.UnitPrice.IsNegative() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"unit_price": "must not be negative"}))
			return
		}
		qty := 1
		if payload.Quantity != nil {
			qty = *payload.Quantity
		}

		changed := svc.AddToCartQuantity(r.Context(), cart.Product{
			ID:        strings.TrimSpace(payload.ID),
			Name:      payload.Name,
			UnitPrice: payload.UnitPrice,
			Image:     payload.Image,
		}, qty)
		responses.WriteSuccess(w, newCartResponse(svc, &changed))
	}
}

func CartUpdateItem(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		changed := svc.UpdateQuantity(r.Context(), chi.URLParam(r, "productId"), *payload.Quantity)
		responses.WriteSuccess(w, newCartResponse(svc, &changed))
	}
}

func CartRemoveItem(svc CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		changed := svc.RemoveFromCart(r.Context(), chi.URLParam(r, "productId"))
		responses.WriteSuccess(w, newCartResponse(svc, &changed))
	}
}

func CartClear(svc CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ClearCart(r.Context())
		responses.WriteSuccess(w, newCartResponse(svc, nil))
	}
}
