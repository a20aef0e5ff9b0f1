// Package cart implements the shopping cart model: line merging, quantity
// updates and derived totals.
package cart

import (
	"slices"

	"github.com/proboots/storefront/internal/domain"
	"github.com/proboots/storefront/internal/errors"
)

// MaxQuantity caps the units held on a single line.
const MaxQuantity = 99

// Observer is notified after a mutation changes the cart.
type Observer interface {
	CartChanged(sessionID string, c *domain.Cart)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(sessionID string, c *domain.Cart)

// CartChanged calls f.
func (f ObserverFunc) CartChanged(sessionID string, c *domain.Cart) { f(sessionID, c) }

// Cart is one session's cart. It is not safe for concurrent use; callers
// load, mutate and save it within a single request.
type Cart struct {
	sessionID string
	items     []domain.CartItem
	total     int64
	itemCount int
	observers []Observer
}

// New builds a cart from persisted lines. Lines with a non-positive quantity are dropped.
func New(sessionID string, items []domain.CartItem, observers ...Observer) *Cart {
	c := &Cart{sessionID: sessionID, observers: observers}
	for _, it := range items {
		if it.Quantity > 0 {
			c.items = append(c.items, it)
		}
	}
	c.recompute()
	return c
}

// SessionID returns the owning session.
func (c *Cart) SessionID() string { return c.sessionID }

// Total is the sum of price times quantity, in minor units.
func (c *Cart) Total() int64 { return c.total }

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int { return c.itemCount }

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool { return len(c.items) == 0 }

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []domain.CartItem {
	out := make([]domain.CartItem, len(c.items))
	for i, it := range c.items {
		it.Product = it.Product.Clone()
		out[i] = it
	}
	return out
}

// Snapshot returns the cart as a domain value.
func (c *Cart) Snapshot() *domain.Cart {
	return &domain.Cart{Items: c.Items(), Total: c.total, ItemCount: c.itemCount}
}

// AddItem merges into the line with the same product and size, or appends a new line.
func (c *Cart) AddItem(p domain.Product, quantity int, size string) error {
	if quantity < 1 {
		return errors.Validationf("quantity must be a positive integer, got %d", quantity)
	}
	i := c.find(p.ID, size)
	current := 0
	if i >= 0 {
		current = c.items[i].Quantity
	}
	if quantity > MaxQuantity-current {
		return errors.Validationf("quantity for %s cannot exceed %d", p.Name, MaxQuantity)
	}
	if i >= 0 {
		c.items[i].Quantity += quantity
	} else {
		c.items = append(c.items, domain.CartItem{Product: p.Clone(), Quantity: quantity, Size: size})
	}
	c.changed()
	return nil
}

// RemoveItem drops the matching line. It reports whether a line was removed.
func (c *Cart) RemoveItem(productID, size string) bool {
	i := c.find(productID, size)
	if i < 0 {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	c.changed()
	return true
}

// UpdateQuantity sets the matching line's quantity. A quantity of zero or less
// removes the line; one above MaxQuantity is rejected. It reports whether the
// cart changed.
func (c *Cart) UpdateQuantity(productID string, quantity int, size string) (bool, error) {
	if quantity <= 0 {
		return c.RemoveItem(productID, size), nil
	}
	if quantity > MaxQuantity {
		return false, errors.Validationf("quantity cannot exceed %d, got %d", MaxQuantity, quantity)
	}
	i := c.find(productID, size)
	if i < 0 || c.items[i].Quantity == quantity {
		return false, nil
	}
	c.items[i].Quantity = quantity
	c.changed()
	return true, nil
}

// Clear empties the cart. It reports whether there was anything to clear.
func (c *Cart) Clear() bool {
	if len(c.items) == 0 {
		return false
	}
	c.items = nil
	c.changed()
	return true
}

func (c *Cart) find(productID, size string) int {
	return slices.IndexFunc(c.items, func(it domain.CartItem) bool {
		return it.Product.ID == productID && it.Size == size
	})
}

func (c *Cart) changed() {
	c.recompute()
	if len(c.observers) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, o := range c.observers {
		o.CartChanged(c.sessionID, snap)
	}
}

func (c *Cart) recompute() {
	c.total = 0
	c.itemCount = 0
	for _, it := range c.items {
		c.total += it.Subtotal()
		c.itemCount += it.Quantity
	}
}
