package portal

import "context"

// OrdersRepo accesses the purchase-order ledger.
type OrdersRepo struct {
	client *Client
}

// Fetch returns all orders, surfacing classified errors.
func (r *OrdersRepo) Fetch(ctx context.Context) ([]Order, error) {
	return fetchJSON[[]Order](ctx, r.client, "/orders")
}

// Get returns all orders, degrading to an empty slice on failure.
func (r *OrdersRepo) Get(ctx context.Context) []Order {
	orders, err := r.Fetch(ctx)
	if err != nil {
		r.client.log.Warnf("orders read degraded: %v", err)
		return []Order{}
	}
	return orders
}

// SaveOrder appends a single order. Checkout depends on this surfacing every
// failure: a silently dropped order with a debited wallet is the worst
// possible outcome.
func (r *OrdersRepo) SaveOrder(ctx context.Context, order Order) error {
	return saveJSON(ctx, r.client, "/orders", order)
}

// Save replaces the order ledger (admin status updates).
func (r *OrdersRepo) Save(ctx context.Context, orders []Order) error {
	return saveJSON(ctx, r.client, "/orders", orders)
}
