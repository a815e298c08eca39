package portal

import "context"

// ShopRepo accesses the uniform shop configuration.
type ShopRepo struct {
	client *Client
}

// Fetch returns the shop data, surfacing classified errors.
func (r *ShopRepo) Fetch(ctx context.Context) (ShopData, error) {
	return fetchJSON[ShopData](ctx, r.client, "/shop")
}

// Get returns the shop data, degrading to the default catalogue so the shop
// page always renders something purchasable.
func (r *ShopRepo) Get(ctx context.Context) ShopData {
	data, err := r.Fetch(ctx)
	if err != nil {
		r.client.log.Warnf("shop read degraded: %v", err)
		return DefaultShopData()
	}
	if data == (ShopData{}) {
		return DefaultShopData()
	}
	return data
}

// Save replaces the shop configuration.
func (r *ShopRepo) Save(ctx context.Context, data ShopData) error {
	return saveJSON(ctx, r.client, "/shop", data)
}
