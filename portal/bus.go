package portal

import "context"

// BusRepo accesses the live bus route feed.
type BusRepo struct {
	client *Client
}

// Fetch returns both routes, surfacing classified errors. The bus watcher
// uses this form so a dead feed is visible in its logs.
func (r *BusRepo) Fetch(ctx context.Context) (BusData, error) {
	return fetchJSON[BusData](ctx, r.client, "/bus")
}

// Get returns both routes, degrading to empty routes on failure.
func (r *BusRepo) Get(ctx context.Context) BusData {
	data, err := r.Fetch(ctx)
	if err != nil {
		r.client.log.Warnf("bus feed read degraded: %v", err)
		return BusData{}
	}
	return data
}

// Save replaces the route data.
func (r *BusRepo) Save(ctx context.Context, data BusData) error {
	return saveJSON(ctx, r.client, "/bus", data)
}
