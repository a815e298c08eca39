package portal

import (
	"context"
	"net/url"
)

// AttendanceRepo accesses per-date attendance sheets.
type AttendanceRepo struct {
	client *Client
}

func attendanceEndpoint(date string) string {
	return "/attendance?date=" + url.QueryEscape(date)
}

// Fetch returns one date's sheet, surfacing classified errors.
func (r *AttendanceRepo) Fetch(ctx context.Context, date string) (AttendanceSheet, error) {
	return fetchJSON[AttendanceSheet](ctx, r.client, attendanceEndpoint(date))
}

// Get returns one date's sheet, degrading to an empty sheet on failure.
func (r *AttendanceRepo) Get(ctx context.Context, date string) AttendanceSheet {
	sheet, err := r.Fetch(ctx, date)
	if err != nil {
		r.client.log.WithField("date", date).Warnf("attendance read degraded: %v", err)
		return AttendanceSheet{}
	}
	if sheet == nil {
		return AttendanceSheet{}
	}
	return sheet
}

// Save replaces one date's sheet. The date travels in the body, not the
// query string: POST /attendance with {date, data}.
func (r *AttendanceRepo) Save(ctx context.Context, date string, sheet AttendanceSheet) error {
	payload := struct {
		Date string          `json:"date"`
		Data AttendanceSheet `json:"data"`
	}{Date: date, Data: sheet}
	return saveJSON(ctx, r.client, "/attendance", payload)
}
