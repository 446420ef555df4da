package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/angelmondragon/storefront-core/pkg/logger"
	"github.com/angelmondragon/storefront-core/pkg/metrics"
	"github.com/angelmondragon/storefront-core/pkg/store"
	"github.com/shopspring/decimal"
)

// Options carries the optional collaborators of an Engine.
type Options struct {
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
}

// Engine owns the cart and re-persists the full cart under store.KeyCart
// after every change. Every operation is total: invalid input is ignored
// and store failures are logged, never returned.
type Engine struct {
	mu      sync.Mutex
	store   store.Store
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
	lines   Cart
}

// NewEngine hydrates the cart from st. Missing or unreadable data yields an
// empty cart.
func NewEngine(ctx context.Context, st store.Store, opts Options) (*Engine, error) {
	if st == nil {
		return nil, fmt.Errorf("persistent store required")
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	e := &Engine{
		store:   st,
		logg:    logg,
		metrics: opts.Metrics,
		lines:   Cart{},
	}
	e.hydrate(logg.WithStoreKey(ctx, store.KeyCart))
	return e, nil
}

func (e *Engine) hydrate(ctx context.Context) {
	raw, ok, err := e.store.Get(ctx, store.KeyCart)
	if err != nil {
		e.metrics.IncStoreFailure(store.KeyCart, "get")
		e.logg.WarnErr(ctx, "cart.hydrate_failed", err)
		return
	}
	if !ok {
		return
	}
	var decoded Cart
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		e.logg.WarnErr(ctx, "cart.hydrate_corrupted", err)
		return
	}
	if err := decoded.validate(); err != nil {
		e.logg.WarnErr(ctx, "cart.hydrate_invalid", err)
		return
	}
	if decoded == nil {
		decoded = Cart{}
	}
	e.lines = decoded
	e.metrics.SetCartItems(e.lines.ItemCount())
	e.logg.Debug(e.logg.WithField(ctx, "lines", len(decoded)), "cart.hydrated")
}

// Add puts qty units of p in the cart. It reports whether the cart changed.
func (e *Engine) Add(ctx context.Context, p Product, qty int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, changed := e.lines.withAdded(p, qty)
	return e.commit(ctx, "add", next, changed)
}

// SetQuantity sets the quantity of an existing line. qty < 1 and unknown ids
// leave the cart untouched.
func (e *Engine) SetQuantity(ctx context.Context, productID string, qty int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, changed := e.lines.withQuantity(productID, qty)
	return e.commit(ctx, "set_quantity", next, changed)
}

// Remove deletes the product's line if present.
func (e *Engine) Remove(ctx context.Context, productID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, changed := e.lines.without(productID)
	return e.commit(ctx, "remove", next, changed)
}

// Clear empties the cart and persists the empty cart unconditionally.
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commit(ctx, "clear", Cart{}, true)
}

// Checkout hands a copy of the cart to record and clears the cart only if
// record succeeds. The engine stays locked throughout, so no mutation lands
// between the snapshot and the clear.
func (e *Engine) Checkout(ctx context.Context, record func(Cart) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := record(e.lines.Clone()); err != nil {
		return err
	}
	e.commit(ctx, "checkout", Cart{}, true)
	return nil
}

// Lines returns a copy of the cart in insertion order.
func (e *Engine) Lines() Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines.Clone()
}

// ItemCount is the sum of quantities, the cart badge number.
func (e *Engine) ItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines.ItemCount()
}

// Subtotal is the sum of quantity × unit price over all lines.
func (e *Engine) Subtotal() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines.Subtotal()
}

// Len is the number of distinct lines.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines)
}

// commit must be called with e.mu held.
func (e *Engine) commit(ctx context.Context, op string, next Cart, changed bool) bool {
	if !changed {
		return false
	}
	e.lines = next
	e.metrics.IncCartMutation(op)
	e.metrics.SetCartItems(e.lines.ItemCount())
	e.persist(e.logg.WithStoreKey(ctx, store.KeyCart), op)
	return true
}

func (e *Engine) persist(ctx context.Context, op string) {
	raw, err := json.Marshal(e.lines)
	if err != nil {
		e.logg.Error(ctx, "cart.encode_failed", err)
		return
	}
	if err := e.store.Set(ctx, store.KeyCart, string(raw)); err != nil {
		e.metrics.IncStoreFailure(store.KeyCart, "set")
		e.logg.WarnErr(e.logg.WithField(ctx, "op", op), "cart.persist_failed", err)
	}
}
