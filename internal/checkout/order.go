package checkout

import (
	"time"

	"github.com/angelmondragon/storefront-core/internal/cart"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the client-local record of a completed checkout. Guests have an
// empty IdentityID.
type Order struct {
	ID         uuid.UUID       `json:"id"`
	IdentityID string          `json:"identity_id,omitempty"`
	Lines      cart.Cart       `json:"lines"`
	ItemCount  int             `json:"item_count"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	PlacedAt   time.Time       `json:"placed_at"`
}

// Stats summarizes an identity's order history.
type Stats struct {
	OrderCount int             `json:"order_count"`
	ItemCount  int             `json:"item_count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// RecentOrderLimit is how many orders an Overview lists.
const RecentOrderLimit = 5

// Overview is the store-wide view of all orders for the admin dashboard.
type Overview struct {
	Stats  Stats   `json:"stats"`
	Recent []Order `json:"recent"`
}

func summarize(orders []Order) Stats {
	stats := Stats{TotalSpent: decimal.Zero}
	for _, o := range orders {
		stats.OrderCount++
		stats.ItemCount += o.ItemCount
		stats.TotalSpent = stats.TotalSpent.Add(o.Subtotal)
	}
	return stats
}
