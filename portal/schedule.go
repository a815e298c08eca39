package portal

import "context"

// ScheduleRepo accesses the weekly timetable for every class.
type ScheduleRepo struct {
	client *Client
}

// Fetch returns the timetable, surfacing classified errors.
func (r *ScheduleRepo) Fetch(ctx context.Context) (Schedule, error) {
	return fetchJSON[Schedule](ctx, r.client, "/schedule")
}

// Get returns the timetable, degrading to an empty schedule on failure.
func (r *ScheduleRepo) Get(ctx context.Context) Schedule {
	schedule, err := r.Fetch(ctx)
	if err != nil {
		r.client.log.Warnf("schedule read degraded: %v", err)
		return Schedule{}
	}
	if schedule == nil {
		return Schedule{}
	}
	return schedule
}

// Save replaces the timetable.
func (r *ScheduleRepo) Save(ctx context.Context, schedule Schedule) error {
	return saveJSON(ctx, r.client, "/schedule", schedule)
}
