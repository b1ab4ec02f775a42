package store

import (
	"sync"

	"github.com/voltmart/voltmart/internal/logger"
	"github.com/voltmart/voltmart/internal/model"
	"github.com/voltmart/voltmart/internal/storage"
)

// AddResult says what a cart mutation actually did, so callers can give
// accurate feedback instead of guessing from the resulting count.
type AddResult int

const (
	// Added means a new line was inserted with quantity 1
	Added AddResult = iota
	// Incremented means an existing line's quantity grew
	Incremented
	// Capped means the stock ceiling blocked the change; state is untouched
	Capped
	// Removed means the line was deleted (quantity driven to zero)
	Removed
)

// Cart owns the local shopping cart. At most one line exists per product,
// a line's quantity never exceeds the product's stock, and every mutation
// rewrites the persisted copy in full before returning.
type Cart struct {
	mu    sync.Mutex
	state *storage.Store
	items []model.CartItem
}

// NewCart creates a cart store, loading any persisted contents
func NewCart(state *storage.Store) *Cart {
	c := &Cart{state: state}
	state.Get(storage.KeyCart, &c.items)

	// Drop malformed persisted lines rather than carrying them forever
	kept := c.items[:0]
	for _, it := range c.items {
		if it.ProductID != 0 && it.Quantity > 0 {
			kept = append(kept, it)
		}
	}
	c.items = kept
	return c
}

// Add inserts product with quantity 1, or bumps an existing line by one.
// The increment is refused, leaving state unchanged, when it would push
// the quantity past the product's stock.
func (c *Cart) Add(p model.Product) AddResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == p.ProductID {
			if c.items[i].Quantity+1 > c.items[i].Stock {
				return Capped
			}
			c.items[i].Quantity++
			c.persist()
			return Incremented
		}
	}

	if p.Stock < 1 {
		return Capped
	}
	c.items = append(c.items, model.CartItem{Product: p, Quantity: 1})
	c.persist()
	return Added
}

// Remove deletes the line for productID. Absent lines are a no-op.
func (c *Cart) Remove(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.persist()
			return
		}
	}
}

// UpdateQuantity sets a line's quantity. Zero or negative removes the
// line; a quantity past the stock ceiling is refused with Capped.
func (c *Cart) UpdateQuantity(productID int64, quantity int) AddResult {
	if quantity <= 0 {
		c.Remove(productID)
		return Removed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			if quantity > c.items[i].Stock {
				return Capped
			}
			c.items[i].Quantity = quantity
			c.persist()
			return Incremented
		}
	}
	return Capped
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.persist()
}

// Items returns a copy of the cart lines
func (c *Cart) Items() []model.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Count is the sum of quantities across all lines
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for i := range c.items {
		n += c.items[i].Quantity
	}
	return n
}

// Total is the sum of price times quantity across all lines
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0.0
	for i := range c.items {
		total += c.items[i].LineTotal()
	}
	return total
}

// Shipping is the shipping fee for the current contents
func (c *Cart) Shipping() float64 {
	return model.ShippingFee(c.Total())
}

// GrandTotal is items total plus shipping
func (c *Cart) GrandTotal() float64 {
	total := c.Total()
	return total + model.ShippingFee(total)
}

// OrderItems converts the cart lines into order lines for checkout
func (c *Cart) OrderItems() []model.OrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.OrderItem, 0, len(c.items))
	for i := range c.items {
		out = append(out, model.OrderItem{
			ProductID: c.items[i].ProductID,
			Name:      c.items[i].Name,
			Price:     c.items[i].Price,
			Quantity:  c.items[i].Quantity,
		})
	}
	return out
}

// persist rewrites the stored cart in full. Caller holds c.mu.
func (c *Cart) persist() {
	if err := c.state.Set(storage.KeyCart, c.items); err != nil {
		logger.Warn("failed to persist cart", logger.F("error", err))
	}
}
