// Package storefront composes the cart, session, guard and checkout engines
// into the surface the presentation layer talks to.
package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-core/internal/cart"
	"github.com/angelmondragon/storefront-core/internal/checkout"
	"github.com/angelmondragon/storefront-core/internal/guard"
	"github.com/angelmondragon/storefront-core/internal/session"
	"github.com/angelmondragon/storefront-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
	"github.com/angelmondragon/storefront-core/pkg/logger"
	"github.com/angelmondragon/storefront-core/pkg/metrics"
	"github.com/angelmondragon/storefront-core/pkg/store"
	"github.com/shopspring/decimal"
)

// Params bundles the dependencies required to build a Storefront.
type Params struct {
	Store    store.Store
	Verifier session.IdentityVerifier
	Policy   guard.Policy
	Logger   *logger.Logger
	Metrics  *metrics.StorefrontMetrics
	Now      func() time.Time
}

// Storefront is the single owner of cart and session state for one client.
type Storefront struct {
	cart     *cart.Engine
	session  *session.Engine
	checkout *checkout.Service
	policy   guard.Policy
	logg     *logger.Logger
}

// History is an identity's order list plus its totals.
type History struct {
	Orders []checkout.Order `json:"orders"`
	Stats  checkout.Stats   `json:"stats"`
}

// New hydrates both engines from the store.
func New(ctx context.Context, params Params) (*Storefront, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("persistent store required")
	}
	if params.Verifier == nil {
		return nil, fmt.Errorf("identity verifier required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	policy := params.Policy
	if policy == nil {
		policy = guard.DefaultPolicy()
	}

	cartEngine, err := cart.NewEngine(ctx, params.Store, cart.Options{Logger: logg, Metrics: params.Metrics})
	if err != nil {
		return nil, fmt.Errorf("cart engine: %w", err)
	}
	sessionEngine, err := session.NewEngine(ctx, params.Store, params.Verifier, session.Options{Logger: logg, Metrics: params.Metrics})
	if err != nil {
		return nil, fmt.Errorf("session engine: %w", err)
	}
	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Store:   params.Store,
		Cart:    cartEngine,
		Logger:  logg,
		Metrics: params.Metrics,
		Now:     params.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("checkout service: %w", err)
	}

	return &Storefront{
		cart:     cartEngine,
		session:  sessionEngine,
		checkout: checkoutSvc,
		policy:   policy,
		logg:     logg,
	}, nil
}

func (s *Storefront) CartItemCount() int {
	return s.cart.ItemCount()
}

func (s *Storefront) CartSubtotal() decimal.Decimal {
	return s.cart.Subtotal()
}

func (s *Storefront) CartLines() cart.Cart {
	return s.cart.Lines()
}

// CurrentIdentity is nil when anonymous.
func (s *Storefront) CurrentIdentity() *session.Identity {
	identity, ok := s.session.Current()
	if !ok {
		return nil
	}
	return &identity
}

// AddToCart adds one unit of p.
func (s *Storefront) AddToCart(ctx context.Context, p cart.Product) bool {
	return s.cart.Add(ctx, p, 1)
}

func (s *Storefront) AddToCartQuantity(ctx context.Context, p cart.Product, qty int) bool {
	return s.cart.Add(ctx, p, qty)
}

func (s *Storefront) UpdateQuantity(ctx context.Context, productID string, qty int) bool {
	return s.cart.SetQuantity(ctx, productID, qty)
}

func (s *Storefront) RemoveFromCart(ctx context.Context, productID string) bool {
	return s.cart.Remove(ctx, productID)
}

func (s *Storefront) ClearCart(ctx context.Context) {
	s.cart.Clear(ctx)
}

// Login returns *session.CredentialMismatch on a bad pair and a validation
// error on an unknown role.
func (s *Storefront) Login(ctx context.Context, login, secret string, role enums.Role) (session.Identity, error) {
	return s.session.Login(ctx, login, secret, role)
}

func (s *Storefront) Logout(ctx context.Context) {
	s.session.Logout(ctx)
}

// Guard decides access to a view by its policy entry.
func (s *Storefront) Guard(view string) guard.Decision {
	return s.policy.Decide(s.CurrentIdentity(), view)
}

// GuardRole decides access to a view that requires role.
func (s *Storefront) GuardRole(role enums.Role) guard.Decision {
	return guard.Decide(s.CurrentIdentity(), role)
}

// Checkout places an order for the current identity, or a guest order when
// anonymous.
func (s *Storefront) Checkout(ctx context.Context) (checkout.Order, error) {
	return s.checkout.Complete(ctx, s.CurrentIdentity())
}

// OrderHistory lists the orders of the current identity. Anonymous callers
// get an unauthorized error.
func (s *Storefront) OrderHistory(ctx context.Context) (History, error) {
	identity := s.CurrentIdentity()
	if identity == nil {
		return History{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	orders, err := s.checkout.History(ctx, identity.ID)
	if err != nil {
		return History{}, err
	}
	stats, err := s.checkout.Stats(ctx, identity.ID)
	if err != nil {
		return History{}, err
	}
	return History{Orders: orders, Stats: stats}, nil
}

// OrderOverview summarizes every order in the store. Callers gate it behind
// the admin view.
func (s *Storefront) OrderOverview(ctx context.Context) (checkout.Overview, error) {
	return s.checkout.Overview(ctx)
}
