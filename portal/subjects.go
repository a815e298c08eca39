package portal

import "context"

// DefaultSubjects is the subject-list fallback when the backend is
// unreachable.
func DefaultSubjects() []string {
	return []string{"Math", "Science", "English"}
}

// SubjectsRepo accesses the taught subject list.
type SubjectsRepo struct {
	client *Client
}

// Fetch returns the subject list, surfacing classified errors.
func (r *SubjectsRepo) Fetch(ctx context.Context) ([]string, error) {
	return fetchJSON[[]string](ctx, r.client, "/subjects")
}

// Get returns the subject list, degrading to the default set on failure.
func (r *SubjectsRepo) Get(ctx context.Context) []string {
	subjects, err := r.Fetch(ctx)
	if err != nil {
		r.client.log.Warnf("subjects read degraded: %v", err)
		return DefaultSubjects()
	}
	if len(subjects) == 0 {
		return DefaultSubjects()
	}
	return subjects
}

// Save replaces the subject list.
func (r *SubjectsRepo) Save(ctx context.Context, subjects []string) error {
	return saveJSON(ctx, r.client, "/subjects", subjects)
}
