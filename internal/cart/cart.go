package cart

import (
	"sync"

	"github.com/jabirmahmud0/techhive-client/pkg/types"
	"github.com/shopspring/decimal"
)

// Line is one cart entry: a product snapshot plus the chosen quantity.
type Line struct {
	Product types.Product
	Qty     int
}

// Cart holds the session's in-memory order draft. It never touches the
// network; the backend first sees its contents at checkout. Contents are
// not persisted across restarts.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add merges the product into the cart. A product already present gets
// its quantity incremented instead of a duplicate line. Quantities below
// one count as one. Stock counts are advisory and not enforced here.
func (c *Cart) Add(product types.Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].Product.ID == product.ID {
			c.lines[i].Qty += qty
			return
		}
	}
	c.lines = append(c.lines, Line{Product: product, Qty: qty})
}

// Remove drops the line for the given product id. Removing an absent id
// is a no-op.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.Product.ID != productID {
			kept = append(kept, line)
		}
	}
	c.lines = kept
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Items returns a copy of the current lines in insertion order.
func (c *Cart) Items() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Subtotal is Σ(quantity × unit price) over all lines, computed with
// decimal arithmetic to avoid float accumulation drift.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, line := range c.lines {
		price := decimal.NewFromFloat(line.Product.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Qty))))
	}
	return total
}
