package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-core/internal/cart"
	"github.com/angelmondragon/storefront-core/internal/session"
	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
	"github.com/angelmondragon/storefront-core/pkg/logger"
	"github.com/angelmondragon/storefront-core/pkg/metrics"
	"github.com/angelmondragon/storefront-core/pkg/store"
	"github.com/google/uuid"
)

type cartSource interface {
	Checkout(ctx context.Context, record func(cart.Cart) error) error
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Store   store.Store
	Cart    cartSource
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
	Now     func() time.Time
}

// Service snapshots the cart into the order list under store.KeyOrders.
type Service struct {
	mu      sync.Mutex
	store   store.Store
	cart    cartSource
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
	now     func() time.Time
}

// NewService constructs a checkout service with the provided dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("persistent store required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:   params.Store,
		cart:    params.Cart,
		logg:    logg,
		metrics: params.Metrics,
		now:     now,
	}, nil
}

// Complete records the current cart as an order for identity (nil for a
// guest) and clears the cart. The cart is kept when the order cannot be
// written.
func (s *Service) Complete(ctx context.Context, identity *session.Identity) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if identity != nil {
		ctx = s.logg.WithIdentityID(ctx, identity.ID)
	}
	ctx = s.logg.WithStoreKey(ctx, store.KeyOrders)

	var order Order
	err := s.cart.Checkout(ctx, func(lines cart.Cart) error {
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		order = Order{
			ID:        uuid.New(),
			Lines:     lines,
			ItemCount: lines.ItemCount(),
			Subtotal:  lines.Subtotal(),
			PlacedAt:  s.now().UTC(),
		}
		if identity != nil {
			order.IdentityID = identity.ID
		}

		existing, err := s.load(ctx)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(append(existing, order))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode orders")
		}
		if err := s.store.Set(ctx, store.KeyOrders, string(raw)); err != nil {
			s.metrics.IncStoreFailure(store.KeyOrders, "set")
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save order")
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":   order.ID.String(),
		"item_count": order.ItemCount,
		"subtotal":   order.Subtotal.String(),
	}), "checkout.completed")
	return order, nil
}

// History returns the orders of identityID, newest first.
func (s *Service) History(ctx context.Context, identityID string) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(s.logg.WithStoreKey(ctx, store.KeyOrders))
	if err != nil {
		return nil, err
	}
	out := make([]Order, 0, len(all))
	for _, o := range all {
		if o.IdentityID == identityID {
			out = append(out, o)
		}
	}
	return newestFirst(out), nil
}

// All returns every recorded order, guests included, newest first.
func (s *Service) All(ctx context.Context) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(s.logg.WithStoreKey(ctx, store.KeyOrders))
	if err != nil {
		return nil, err
	}
	if all == nil {
		all = []Order{}
	}
	return newestFirst(all), nil
}

// Overview summarizes every order and lists the RecentOrderLimit newest.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	all, err := s.All(ctx)
	if err != nil {
		return Overview{}, err
	}
	recent := all
	if len(recent) > RecentOrderLimit {
		recent = recent[:RecentOrderLimit]
	}
	return Overview{Stats: summarize(all), Recent: recent}, nil
}

func newestFirst(orders []Order) []Order {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].PlacedAt.After(orders[j].PlacedAt)
	})
	return orders
}

// Stats returns order totals for identityID.
func (s *Service) Stats(ctx context.Context, identityID string) (Stats, error) {
	orders, err := s.History(ctx, identityID)
	if err != nil {
		return Stats{}, err
	}
	return summarize(orders), nil
}

// load must be called with s.mu held. A corrupted list reads as empty.
func (s *Service) load(ctx context.Context) ([]Order, error) {
	raw, ok, err := s.store.Get(ctx, store.KeyOrders)
	if err != nil {
		s.metrics.IncStoreFailure(store.KeyOrders, "get")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders")
	}
	if !ok {
		return nil, nil
	}
	var orders []Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		s.logg.WarnErr(ctx, "checkout.orders_corrupted", err)
		return nil, nil
	}
	return orders, nil
}
