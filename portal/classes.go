package portal

import "context"

// ClassesRepo accesses the list of class labels.
type ClassesRepo struct {
	client *Client
}

// Fetch returns the class labels, surfacing classified errors.
func (r *ClassesRepo) Fetch(ctx context.Context) ([]string, error) {
	return fetchJSON[[]string](ctx, r.client, "/classes")
}

// Get returns the class labels, degrading to the default roster so grade and
// schedule screens stay usable offline.
func (r *ClassesRepo) Get(ctx context.Context) []string {
	classes, err := r.Fetch(ctx)
	if err != nil {
		r.client.log.Warnf("classes read degraded: %v", err)
		return DefaultClasses()
	}
	if len(classes) == 0 {
		return DefaultClasses()
	}
	return classes
}

// Save replaces the class list.
func (r *ClassesRepo) Save(ctx context.Context, classes []string) error {
	return saveJSON(ctx, r.client, "/classes", classes)
}

// SaveClass appends one class label if it is not already present.
func (r *ClassesRepo) SaveClass(ctx context.Context, name string) error {
	classes, err := r.Fetch(ctx)
	if err != nil {
		return err
	}
	for _, c := range classes {
		if c == name {
			return nil
		}
	}
	return r.Save(ctx, append(classes, name))
}
