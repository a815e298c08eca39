package portal

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viola-academy/portal-client/internal/portaltest"
	"github.com/viola-academy/portal-client/pkg/logger"
	"github.com/viola-academy/portal-client/prefs"
)

func newTestClient(t *testing.T, srv *portaltest.Server) (*Client, *prefs.Store) {
	t.Helper()
	store := prefs.NewStore(prefs.NewMemory(), "", logger.Discard("prefs"))
	c, err := New(Config{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}, store, logger.Discard("portal"))
	require.NoError(t, err)
	return c, store
}

func loginAdmin(t *testing.T, c *Client) {
	t.Helper()
	_, err := c.Session().LoginAdmin(context.Background(), portaltest.AdminUser, portaltest.AdminPassword)
	require.NoError(t, err)
}

func TestNewValidation(t *testing.T) {
	store := prefs.NewStore(prefs.NewMemory(), "", logger.Discard("prefs"))

	_, err := New(Config{}, store, logger.Discard("portal"))
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "http://localhost:3000/api"}, nil, logger.Discard("portal"))
	assert.Error(t, err)
}

func TestFetchDecodesWireCasing(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)
	srv.Seed("/orders", `[{
		"id": "1700000000000-ab12",
		"date": "2026-08-01",
		"parent_name": "Huda",
		"phone": "0790000000",
		"student_details": "Lina (KG1 A)",
		"items": [{"name": "Sandwich", "price": 2.5, "type": "lunch"}],
		"total": 2.5,
		"payment_method": "wallet",
		"status": "Pending"
	}]`)

	c, _ := newTestClient(t, srv)
	orders, err := c.Orders().Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Huda", orders[0].ParentName)
	assert.Equal(t, "Lina (KG1 A)", orders[0].StudentDetails)
	assert.Equal(t, "wallet", orders[0].PaymentMethod)
	assert.Equal(t, OrderPending, orders[0].Status)
}

func TestSaveEncodesWireCasing(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)

	c, _ := newTestClient(t, srv)
	err := c.Orders().SaveOrder(context.Background(), Order{
		ID:            "1-a",
		ParentName:    "Huda",
		PaymentMethod: "wallet",
		Status:        OrderPending,
	})
	require.NoError(t, err)

	stored := srv.Stored("/orders")
	assert.Contains(t, stored, `"parent_name"`)
	assert.Contains(t, stored, `"payment_method"`)
	assert.NotContains(t, stored, `"parentName"`)
}

func TestErrorTaxonomy(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)

	c, _ := newTestClient(t, srv)
	ctx := context.Background()

	cases := []struct {
		status  int
		kind    Kind
		message string
	}{
		{http.StatusForbidden, KindForbidden, "You do not have permission to perform this action."},
		{http.StatusNotFound, KindNotFound, "The requested resource was not found."},
		{http.StatusInternalServerError, KindServerError, "A server error occurred. Please try again later."},
		{http.StatusTeapot, KindUnexpectedStatus, "Request failed (418). Please try again."},
	}
	for _, tc := range cases {
		srv.Force("/students", tc.status)
		_, err := c.Students().Fetch(ctx)
		require.Error(t, err, "status %d", tc.status)
		assert.True(t, IsKind(err, tc.kind), "status %d classified as %v", tc.status, err)
		assert.Equal(t, tc.message, err.Error())
	}
}

func TestNetworkFailureClassified(t *testing.T) {
	srv := portaltest.New()
	srv.SetRequireAuth(false)
	c, _ := newTestClient(t, srv)
	srv.Close()

	_, err := c.Students().Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetworkError))
	assert.Equal(t, "Unable to reach the server. Please check your connection.", err.Error())
}

func TestReadsDegradeToDefaults(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)
	srv.Force("", http.StatusInternalServerError)

	c, _ := newTestClient(t, srv)
	ctx := context.Background()

	assert.Equal(t, DefaultClasses(), c.Classes().Get(ctx))
	assert.Equal(t, DefaultSubjects(), c.Subjects().Get(ctx))
	assert.Equal(t, DefaultShopData(), c.Shop().Get(ctx))
	assert.Empty(t, c.Students().Get(ctx))
	assert.Empty(t, c.Notifications().Get(ctx))
	assert.NotNil(t, c.ScheduleRepo().Get(ctx))
}

func TestWritesPropagateErrors(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)
	srv.Force("/teachers", http.StatusInternalServerError)

	c, _ := newTestClient(t, srv)
	err := c.Teachers().Save(context.Background(), []Teacher{{Name: "Ms. Rana"}})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindServerError))
}

func TestForcedLogoutSingleTransition(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.Seed("/students", `[]`)

	c, _ := newTestClient(t, srv)
	var redirects []string
	c.Session().SetLogoutHook(func(surface string) { redirects = append(redirects, surface) })

	loginAdmin(t, c)
	srv.ExpireSessions()

	ctx := context.Background()
	_, err := c.Students().Fetch(ctx)
	assert.True(t, IsKind(err, KindSessionExpired))
	assert.Equal(t, "Your session has expired. Please log in again.", err.Error())

	// Further 401s still classify but must not re-fire the logout hook.
	_, err = c.Students().Fetch(ctx)
	assert.True(t, IsKind(err, KindSessionExpired))

	assert.Equal(t, []string{SurfaceLogin}, redirects)
	assert.Nil(t, c.Session().Identity())
}

func TestForcedLogoutClearsSessionMarkers(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()

	c, store := newTestClient(t, srv)
	_, err := c.Session().LoginParent(context.Background(), portaltest.ParentPhone, portaltest.ParentPassword)
	require.NoError(t, err)
	require.NotEmpty(t, store.SessionMarker(prefs.KeyCurrentStudentID))

	srv.ExpireSessions()
	_, err = c.Session().CurrentUser(context.Background())
	require.NoError(t, err) // anonymous is not an error

	assert.Empty(t, store.SessionMarker(prefs.KeyCurrentStudentID))
}

func TestMultipartUploadKeepsBoundary(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)

	c, _ := newTestClient(t, srv)
	err := c.Gallery().Upload(context.Background(), "Sports day", "KG1 A", "photo.jpg", strings.NewReader("jpegbytes"))
	require.NoError(t, err)

	recs := srv.RequestsTo("/gallery/upload")
	require.Len(t, recs, 1)
	assert.True(t, strings.HasPrefix(recs[0].ContentType, "multipart/form-data; boundary="))
	assert.Contains(t, string(recs[0].Body), `"caption":"Sports day"`)
	assert.Contains(t, string(recs[0].Body), `"target_class":"KG1 A"`)
}

func TestStudentSaveOneMultipartFields(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)

	c, _ := newTestClient(t, srv)
	err := c.Students().SaveOne(context.Background(), Student{
		ID:     "s1",
		Name:   "Lina",
		Grade:  "KG1 A",
		Fee:    300,
		Credit: 12.5,
	}, "lina.png", strings.NewReader("png"))
	require.NoError(t, err)

	recs := srv.RequestsTo("/students/save")
	require.Len(t, recs, 1)
	body := string(recs[0].Body)
	assert.Contains(t, body, `"name":"Lina"`)
	assert.Contains(t, body, `"fee":"300"`)
	assert.Contains(t, body, `"credit":"12.5"`)
}

func TestDedupeStudentsKeepsFirst(t *testing.T) {
	students := []Student{
		{ID: "a", Name: "first"},
		{ID: "b", Name: "other"},
		{ID: "a", Name: "duplicate"},
	}
	out, changed := DedupeStudents(students)
	require.Len(t, out, 2)
	assert.True(t, changed)
	assert.Equal(t, "first", out[0].Name)
	assert.Equal(t, "b", out[1].ID)

	same, changed := DedupeStudents(out)
	assert.False(t, changed)
	assert.Equal(t, out, same)
}

func TestGradesAndAttendanceQueryParams(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)
	srv.Seed("/grades", `{"s1": {"math": "95"}}`)
	srv.Seed("/attendance", `{"s1": "present"}`)

	c, _ := newTestClient(t, srv)
	ctx := context.Background()

	sheet, err := c.Grades().Fetch(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "95", sheet["s1"]["math"])

	att, err := c.Attendance().Fetch(ctx, "2026-08-27")
	require.NoError(t, err)
	assert.Equal(t, "present", att["s1"])

	recs := srv.RequestsTo("/grades")
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Path, "term=First+Semester")

	recs = srv.RequestsTo("/attendance")
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Path, "date=2026-08-27")
}

func TestBulkSavesUseCollectionEndpoints(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)

	c, _ := newTestClient(t, srv)
	ctx := context.Background()

	require.NoError(t, c.Students().Save(ctx, []Student{{ID: "s1", Name: "Lina"}}))
	require.NoError(t, c.Lunch().Save(ctx, []LunchItem{{Name: "Sandwich", Price: 2.5}}))

	// Bulk replaces go to the collection route; the /save variants carry only
	// the single-record multipart uploads.
	require.Len(t, srv.WritesTo("/students"), 1)
	assert.Equal(t, "/students", srv.WritesTo("/students")[0].Path)
	require.Len(t, srv.WritesTo("/lunch"), 1)
	assert.Equal(t, "/lunch", srv.WritesTo("/lunch")[0].Path)
	assert.Empty(t, srv.RequestsTo("/students/save"))
	assert.Empty(t, srv.RequestsTo("/lunch/save"))
}

func TestGradesSaveEnvelope(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)

	c, _ := newTestClient(t, srv)
	err := c.Grades().Save(context.Background(), "Second Semester", GradeSheet{
		"s1": {"math": "95"},
	})
	require.NoError(t, err)

	writes := srv.WritesTo("/grades")
	require.Len(t, writes, 1)
	assert.Equal(t, "/grades", writes[0].Path, "term travels in the body, not the query")
	body := string(writes[0].Body)
	assert.Contains(t, body, `"term":"Second Semester"`)
	assert.Contains(t, body, `"grades"`)
	assert.Contains(t, body, `"math":"95"`)
}

func TestAttendanceSaveEnvelope(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)

	c, _ := newTestClient(t, srv)
	err := c.Attendance().Save(context.Background(), "2026-08-27", AttendanceSheet{"s1": "present"})
	require.NoError(t, err)

	writes := srv.WritesTo("/attendance")
	require.Len(t, writes, 1)
	assert.Equal(t, "/attendance", writes[0].Path, "date travels in the body, not the query")
	body := string(writes[0].Body)
	assert.Contains(t, body, `"date":"2026-08-27"`)
	assert.Contains(t, body, `"data"`)
	assert.Contains(t, body, `"s1":"present"`)
}

func TestOrdersWriteShapes(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)

	c, _ := newTestClient(t, srv)
	ctx := context.Background()

	require.NoError(t, c.Orders().SaveOrder(ctx, Order{ID: "o1", Status: OrderPending}))
	require.NoError(t, c.Orders().Save(ctx, []Order{{ID: "o1", Status: OrderCompleted}}))

	writes := srv.WritesTo("/orders")
	require.Len(t, writes, 2)
	assert.True(t, strings.HasPrefix(string(writes[0].Body), "{"), "single append posts one object")
	assert.True(t, strings.HasPrefix(string(writes[1].Body), "["), "ledger replace posts an array")
}

func TestNotificationPrivacyFilter(t *testing.T) {
	all := []Notification{
		{ID: "1", TargetClass: "KG1 A"},
		{ID: "2", TargetClass: "KG2 B"},
		{ID: "3", IsPrivate: true, TargetStudentID: "s1", TargetClass: "KG1 A"},
		{ID: "4", IsPrivate: true, TargetStudentID: "s2", TargetClass: "KG1 A"},
	}
	visible := FilterForStudent(all, "s1", "KG1 A")
	require.Len(t, visible, 2)
	assert.Equal(t, "1", visible[0].ID)
	assert.Equal(t, "3", visible[1].ID)
}

func TestSiteContentAccessors(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)
	srv.Seed("/home_data", `{
		"about": {"title": "About Us", "desc": "A school.", "quote": "Learn.", "author": "Founder"},
		"features": [{"icon": "star", "title": "Care", "desc": "Small classes"}],
		"testimonials": [{"quote": "Great", "name": "Huda", "role": "Parent"}],
		"footer": {"phone": "+962", "email": "hi@viola.edu"}
	}`)

	c, _ := newTestClient(t, srv)
	content, err := c.Site().Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "About Us", content.AboutTitle())
	require.Len(t, content.Features(), 1)
	assert.Equal(t, "Care", content.Features()[0].Title)
	require.Len(t, content.Testimonials(), 1)
	assert.Equal(t, "Huda", content.Testimonials()[0].Name)
	assert.Equal(t, "hi@viola.edu", content.FooterEmail())
}

func TestSiteContentWireTranslation(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)
	srv.Seed("/home_data", `{"hero_section": {"image_url": "banner.jpg"}, "about": {"title": "About Us"}}`)

	c, _ := newTestClient(t, srv)
	ctx := context.Background()

	content, err := c.Site().Fetch(ctx)
	require.NoError(t, err)
	raw := string(content.Raw())
	assert.Contains(t, raw, `"heroSection"`, "wire keys are translated on the way in")
	assert.Contains(t, raw, `"imageUrl"`)
	assert.Equal(t, "About Us", content.AboutTitle())

	require.NoError(t, c.Site().Save(ctx, content))
	stored := srv.Stored("/home_data")
	assert.Contains(t, stored, `"hero_section"`, "keys go back to snake_case on the way out")
	assert.Contains(t, stored, `"image_url"`)
	assert.NotContains(t, stored, `"heroSection"`)
}

func TestLoadDashboard(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)
	for _, path := range []string{"/students", "/teachers", "/orders", "/lunch", "/gallery", "/notifications", "/homework"} {
		srv.Seed(path, `[]`)
	}
	srv.Seed("/classes", `["KG1 A"]`)
	srv.Seed("/subjects", `["Math"]`)
	srv.Seed("/schedule", `{}`)
	srv.Seed("/bus", `{"morning": [], "evening": []}`)
	srv.Seed("/shop", `{"summer": {"price": 15}, "winter": {"price": 25}}`)

	c, _ := newTestClient(t, srv)
	d, err := c.LoadDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"KG1 A"}, d.Classes)
	assert.Equal(t, float64(15), d.Shop.Summer.Price)

	// One failed entity fails the batch but keeps the successes.
	srv.Force("/orders", http.StatusInternalServerError)
	d, err = c.LoadDashboard(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindServerError))
	assert.Equal(t, []string{"KG1 A"}, d.Classes)
}

func TestIdempotentReads(t *testing.T) {
	srv := portaltest.New()
	defer srv.Close()
	srv.SetRequireAuth(false)
	srv.Seed("/bus", `{"morning": [{"time": "06:45", "loc": "North gate"}], "evening": []}`)

	c, _ := newTestClient(t, srv)
	ctx := context.Background()
	first := c.Bus().Get(ctx)
	second := c.Bus().Get(ctx)
	assert.Equal(t, first, second)
	require.Len(t, first.Morning, 1)
	assert.Equal(t, "North gate", first.Morning[0].Location)
}

func TestResourceLabel(t *testing.T) {
	assert.Equal(t, "students", resourceLabel("/students/save"))
	assert.Equal(t, "grades", resourceLabel("/grades?term=x"))
	assert.Equal(t, "bus", resourceLabel("/bus"))
	assert.Equal(t, "root", resourceLabel("/"))
}
