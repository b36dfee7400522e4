// Package cart holds the per-session cart aggregate and wishlist set.
// Neither type is safe for concurrent use on its own; the owning session
// serializes all access.
package cart

import (
	"storefront-service/internal/models"
	"storefront-service/internal/util"
)

// Cart accumulates product quantities for one storefront session. Each
// product has at most one line; lines keep insertion order. Operations are
// total over their preconditions: invalid input is ignored, never surfaced,
// since this is local session state.
type Cart struct {
	lines []models.CartLine
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts one unit of the product in the cart. Out-of-stock products are
// ignored. Adding a product already present increments its line instead of
// creating a duplicate.
func (c *Cart) Add(product models.Product) {
	if !product.InStock() {
		util.CartOperationsIgnoredTotal.WithLabelValues("out_of_stock").Inc()
		return
	}

	util.CartOperationsTotal.WithLabelValues("add").Inc()
	for i := range c.lines {
		if c.lines[i].Product.ID == product.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, models.CartLine{Product: product, Quantity: 1})
}

// Remove deletes the product's line unconditionally. No-op when absent.
func (c *Cart) Remove(productID string) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			util.CartOperationsTotal.WithLabelValues("remove").Inc()
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity replaces the line's quantity. Quantities below 1 are
// ignored; removal only ever happens through Remove.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		util.CartOperationsIgnoredTotal.WithLabelValues("quantity_below_one").Inc()
		return
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			util.CartOperationsTotal.WithLabelValues("update").Inc()
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart. Invoked after a confirmed checkout handoff.
func (c *Cart) Clear() {
	if len(c.lines) > 0 {
		util.CartOperationsTotal.WithLabelValues("clear").Inc()
	}
	c.lines = nil
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Total sums quantity times the price snapshot captured at add time.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.lines {
		total += line.Subtotal()
	}
	return total
}

// ItemCount sums quantities across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}
