package controllers

import (
	"context"

	"github.com/angelmondragon/storefront-core/internal/cart"
	"github.com/angelmondragon/storefront-core/internal/checkout"
	"github.com/angelmondragon/storefront-core/internal/guard"
	"github.com/angelmondragon/storefront-core/internal/session"
	"github.com/angelmondragon/storefront-core/internal/storefront"
	"github.com/angelmondragon/storefront-core/pkg/enums"
	"github.com/shopspring/decimal"
)

// CartService is the cart half of the storefront.
type CartService interface {
	CartItemCount() int
	CartSubtotal() decimal.Decimal
	CartLines() cart.Cart
	AddToCartQuantity(ctx context.Context, p cart.Product, qty int) bool
	UpdateQuantity(ctx context.Context, productID string, qty int) bool
	RemoveFromCart(ctx context.Context, productID string) bool
	ClearCart(ctx context.Context)
}

// SessionService is the session half of the storefront.
type SessionService interface {
	CurrentIdentity() *session.Identity
	Login(ctx context.Context, login, secret string, role enums.Role) (session.Identity, error)
	Logout(ctx context.Context)
}

type GuardService interface {
	Guard(view string) guard.Decision
}

type CheckoutService interface {
	Checkout(ctx context.Context) (checkout.Order, error)
	OrderHistory(ctx context.Context) (storefront.History, error)
	OrderOverview(ctx context.Context) (checkout.Overview, error)
}

// Shell is everything the router needs from the storefront.
type Shell interface {
	CartService
	SessionService
	GuardService
	CheckoutService
}

var _ Shell = (*storefront.Storefront)(nil)
