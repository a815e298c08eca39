package portal

import "context"

// TeachersRepo accesses the staff roster.
type TeachersRepo struct {
	client *Client
}

// Fetch returns all teachers, surfacing classified errors.
func (r *TeachersRepo) Fetch(ctx context.Context) ([]Teacher, error) {
	return fetchJSON[[]Teacher](ctx, r.client, "/teachers")
}

// Get returns all teachers, degrading to an empty slice on failure.
func (r *TeachersRepo) Get(ctx context.Context) []Teacher {
	teachers, err := r.Fetch(ctx)
	if err != nil {
		r.client.log.Warnf("teachers read degraded: %v", err)
		return []Teacher{}
	}
	return teachers
}

// Save replaces the staff roster.
func (r *TeachersRepo) Save(ctx context.Context, teachers []Teacher) error {
	return saveJSON(ctx, r.client, "/teachers", teachers)
}
