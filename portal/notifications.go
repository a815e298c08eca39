package portal

import "context"

// NotificationsRepo accesses the notification feed.
type NotificationsRepo struct {
	client *Client
}

// Fetch returns every notification, surfacing classified errors. Visibility
// filtering happens client-side; see FilterForStudent.
func (r *NotificationsRepo) Fetch(ctx context.Context) ([]Notification, error) {
	return fetchJSON[[]Notification](ctx, r.client, "/notifications")
}

// Get returns every notification, degrading to an empty slice on failure.
func (r *NotificationsRepo) Get(ctx context.Context) []Notification {
	notifications, err := r.Fetch(ctx)
	if err != nil {
		r.client.log.Warnf("notifications read degraded: %v", err)
		return []Notification{}
	}
	return notifications
}

// GetForStudent returns the notifications one student may see.
func (r *NotificationsRepo) GetForStudent(ctx context.Context, studentID, class string) []Notification {
	return FilterForStudent(r.Get(ctx), studentID, class)
}

// Save replaces the notification feed.
func (r *NotificationsRepo) Save(ctx context.Context, notifications []Notification) error {
	return saveJSON(ctx, r.client, "/notifications", notifications)
}
