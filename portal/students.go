package portal

import (
	"context"
	"io"
	"net/http"
)

// StudentsRepo accesses the authoritative student roster.
type StudentsRepo struct {
	client *Client
}

// Fetch returns the full roster, surfacing classified errors. Used where a
// failure must gate the caller (checkout, batch dashboard loads).
func (r *StudentsRepo) Fetch(ctx context.Context) ([]Student, error) {
	return fetchJSON[[]Student](ctx, r.client, "/students")
}

// Get returns the roster, degrading to an empty slice on failure so read-only
// surfaces keep rendering.
func (r *StudentsRepo) Get(ctx context.Context) []Student {
	students, err := r.Fetch(ctx)
	if err != nil {
		r.client.log.Warnf("students read degraded: %v", err)
		return []Student{}
	}
	return students
}

// Save replaces the roster. The payload is deduplicated by id first; the
// first occurrence of each id wins.
func (r *StudentsRepo) Save(ctx context.Context, students []Student) error {
	deduped, _ := DedupeStudents(students)
	return saveJSON(ctx, r.client, "/students", deduped)
}

// SaveOne upserts a single student record, optionally attaching a photo. The
// fields travel as a multipart form so the image and the record arrive in one
// request.
func (r *StudentsRepo) SaveOne(ctx context.Context, student Student, photoName string, photo io.Reader) error {
	fields, err := wireFields(student)
	if err != nil {
		return err
	}
	body, contentType, err := buildForm(fields, "image", photoName, photo)
	if err != nil {
		return err
	}
	_, err = r.client.request(ctx, http.MethodPost, "/students/save", body, contentType)
	return err
}

// DedupeStudents removes duplicate ids, keeping the first occurrence of each,
// and reports whether anything was dropped (so callers know a re-save is
// needed).
func DedupeStudents(students []Student) ([]Student, bool) {
	seen := make(map[string]struct{}, len(students))
	out := make([]Student, 0, len(students))
	for _, s := range students {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out, len(out) != len(students)
}
