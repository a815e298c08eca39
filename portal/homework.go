package portal

import "context"

// HomeworkRepo accesses the homework board.
type HomeworkRepo struct {
	client *Client
}

// Fetch returns all assignments, surfacing classified errors.
func (r *HomeworkRepo) Fetch(ctx context.Context) ([]HomeworkItem, error) {
	return fetchJSON[[]HomeworkItem](ctx, r.client, "/homework")
}

// Get returns all assignments, degrading to an empty slice on failure.
func (r *HomeworkRepo) Get(ctx context.Context) []HomeworkItem {
	items, err := r.Fetch(ctx)
	if err != nil {
		r.client.log.Warnf("homework read degraded: %v", err)
		return []HomeworkItem{}
	}
	return items
}

// GetForClass returns the assignments for one class label.
func (r *HomeworkRepo) GetForClass(ctx context.Context, class string) []HomeworkItem {
	return FilterHomeworkForClass(r.Get(ctx), class)
}

// Save replaces the homework board.
func (r *HomeworkRepo) Save(ctx context.Context, items []HomeworkItem) error {
	return saveJSON(ctx, r.client, "/homework", items)
}
