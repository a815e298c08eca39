package portal

import (
	"context"
	"io"
	"net/http"
)

// LunchRepo accesses the cafeteria menu.
type LunchRepo struct {
	client *Client
}

// Fetch returns the menu, surfacing classified errors.
func (r *LunchRepo) Fetch(ctx context.Context) ([]LunchItem, error) {
	return fetchJSON[[]LunchItem](ctx, r.client, "/lunch")
}

// Get returns the menu, degrading to an empty slice on failure.
func (r *LunchRepo) Get(ctx context.Context) []LunchItem {
	items, err := r.Fetch(ctx)
	if err != nil {
		r.client.log.Warnf("lunch menu read degraded: %v", err)
		return []LunchItem{}
	}
	return items
}

// Save replaces the menu.
func (r *LunchRepo) Save(ctx context.Context, items []LunchItem) error {
	return saveJSON(ctx, r.client, "/lunch", items)
}

// SaveItem upserts a single menu entry with an optional photo.
func (r *LunchRepo) SaveItem(ctx context.Context, item LunchItem, imageName string, image io.Reader) error {
	fields, err := wireFields(item)
	if err != nil {
		return err
	}
	body, contentType, err := buildForm(fields, "image", imageName, image)
	if err != nil {
		return err
	}
	_, err = r.client.request(ctx, http.MethodPost, "/lunch/save", body, contentType)
	return err
}
