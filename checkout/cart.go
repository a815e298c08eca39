// Package checkout implements the purchase flow: the three local shopping
// carts, the wallet mirror reconciler, and the optimistic checkout algorithm
// that keeps the mirror honest when a write fails mid-flight.
package checkout

import (
	"github.com/viola-academy/portal-client/portal"
	"github.com/viola-academy/portal-client/prefs"
)

// Context names one of the three independent carts. Each context persists
// under its own preference key; items never bleed between them.
type Context string

const (
	General Context = prefs.KeyCart
	Lunch   Context = prefs.KeyCartLunch
	Uniform Context = prefs.KeyCartShop
)

// Carts is the local cart manager. Cart contents are device-local until
// checkout; nothing here touches the network.
type Carts struct {
	store *prefs.Store
}

// NewCarts wraps a preference store.
func NewCarts(store *prefs.Store) *Carts {
	return &Carts{store: store}
}

// Items returns the cart's contents, empty when unset or corrupt.
func (c *Carts) Items(ctx Context) []portal.CartItem {
	return prefs.Get(c.store, string(ctx), []portal.CartItem{})
}

// Add appends an item.
func (c *Carts) Add(ctx Context, item portal.CartItem) {
	c.store.Set(string(ctx), append(c.Items(ctx), item))
}

// Remove deletes the item at index; out-of-range indexes are ignored.
func (c *Carts) Remove(ctx Context, index int) {
	items := c.Items(ctx)
	if index < 0 || index >= len(items) {
		return
	}
	c.store.Set(string(ctx), append(items[:index], items[index+1:]...))
}

// Clear empties one cart. The other contexts are untouched.
func (c *Carts) Clear(ctx Context) {
	c.store.Delete(string(ctx))
}

// Total returns the sum of item prices in one cart.
func (c *Carts) Total(ctx Context) float64 {
	var total float64
	for _, item := range c.Items(ctx) {
		total += item.Price
	}
	return total
}
