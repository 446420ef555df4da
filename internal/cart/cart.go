package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity bounds a single line. Adds and updates that would exceed
// it are ignored.
const MaxLineQuantity = 1_000_000

// Product is the catalog snapshot handed to the cart on add.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Image     string          `json:"image,omitempty"`
}

// Line is one cart entry. Product attributes are captured at add time and
// never re-read from the catalog.
type Line struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is UnitPrice × Quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an insertion-ordered list of lines with at most one line per product.
type Cart []Line

// ItemCount is the sum of all line quantities.
func (c Cart) ItemCount() int {
	total := 0
	for _, line := range c {
		total += line.Quantity
	}
	return total
}

// Subtotal is the sum of all line totals.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.LineTotal())
	}
	return total
}

// Clone returns a copy that shares no backing array with c.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

func (c Cart) indexOf(productID string) int {
	for i, line := range c {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// withAdded merges qty into the product's line or appends a new one.
func (c Cart) withAdded(p Product, qty int) (Cart, bool) {
	if qty < 1 || qty > MaxLineQuantity || p.ID == "" {
		return c, false
	}
	if i := c.indexOf(p.ID); i >= 0 {
		if c[i].Quantity > MaxLineQuantity-qty {
			return c, false
		}
		out := c.Clone()
		out[i].Quantity += qty
		return out, true
	}
	out := make(Cart, len(c), len(c)+1)
	copy(out, c)
	return append(out, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		Image:     p.Image,
		Quantity:  qty,
	}), true
}

// withQuantity rejects qty < 1 instead of clamping or removing the line.
func (c Cart) withQuantity(productID string, qty int) (Cart, bool) {
	if qty < 1 || qty > MaxLineQuantity {
		return c, false
	}
	i := c.indexOf(productID)
	if i < 0 || c[i].Quantity == qty {
		return c, false
	}
	out := c.Clone()
	out[i].Quantity = qty
	return out, true
}

func (c Cart) without(productID string) (Cart, bool) {
	i := c.indexOf(productID)
	if i < 0 {
		return c, false
	}
	out := make(Cart, 0, len(c)-1)
	out = append(out, c[:i]...)
	return append(out, c[i+1:]...), true
}

// validate checks a decoded cart against the line invariants.
func (c Cart) validate() error {
	seen := make(map[string]struct{}, len(c))
	for i, line := range c {
		if line.ProductID == "" {
			return fmt.Errorf("line %d: missing product id", i)
		}
		if line.Quantity < 1 {
			return fmt.Errorf("line %d (%s): quantity %d below 1", i, line.ProductID, line.Quantity)
		}
		if line.UnitPrice.IsNegative() {
			return fmt.Errorf("line %d (%s): negative unit price", i, line.ProductID)
		}
		if _, dup := seen[line.ProductID]; dup {
			return fmt.Errorf("line %d: duplicate product id %s", i, line.ProductID)
		}
		seen[line.ProductID] = struct{}{}
	}
	return nil
}
