package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// StorefrontMetrics records cart, session and persistence activity.
// A nil *StorefrontMetrics is a valid no-op recorder.
type StorefrontMetrics struct {
	cartMutations *prometheus.CounterVec
	cartItems     prometheus.Gauge
	logins        *prometheus.CounterVec
	storeFailures *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Cart mutations that changed the cart, by operation.",
	}, []string{"op"})
	cartItems := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cart_items",
		Help:      "Current sum of cart line quantities.",
	})
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Login attempts by requested role and outcome.",
	}, []string{"role", "outcome"})
	storeFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_failures_total",
		Help:      "Persistent store reads or writes that failed, by key and operation.",
	}, []string{"key", "op"})
	reg.MustRegister(cartMutations, cartItems, logins, storeFailures)
	return &StorefrontMetrics{
		cartMutations: cartMutations,
		cartItems:     cartItems,
		logins:        logins,
		storeFailures: storeFailures,
	}
}

// IncCartMutation counts a cart operation that changed state.
func (m *StorefrontMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// SetCartItems publishes the current item count.
func (m *StorefrontMetrics) SetCartItems(count int) {
	if m == nil || m.cartItems == nil {
		return
	}
	m.cartItems.Set(float64(count))
}

// IncLogin counts a login attempt. outcome is "success" or a mismatch reason.
func (m *StorefrontMetrics) IncLogin(role, outcome string) {
	if m == nil || m.logins == nil {
		return
	}
	m.logins.WithLabelValues(normalizeLabel(role), normalizeLabel(outcome)).Inc()
}

// IncStoreFailure counts a failed store operation.
func (m *StorefrontMetrics) IncStoreFailure(key, op string) {
	if m == nil || m.storeFailures == nil {
		return
	}
	m.storeFailures.WithLabelValues(normalizeLabel(key), normalizeLabel(op)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
