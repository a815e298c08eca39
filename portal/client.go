package portal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/viola-academy/portal-client/pkg/logger"
	"github.com/viola-academy/portal-client/prefs"
)

const (
	contentTypeJSON  = "application/json"
	maxResponseBytes = 8 << 20
)

// Config holds gateway client configuration.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:3000/api
	BaseURL string

	// Timeout for each HTTP request.
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls; 0 disables the limiter.
	RequestsPerSecond float64
}

// Client is the remote entity gateway. All authoritative-entity reads and
// writes pass through its single request primitive, which attaches the
// session cookie, translates key casing, records metrics, and classifies
// failures into the uniform taxonomy.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
	session *SessionManager

	students      *StudentsRepo
	teachers      *TeachersRepo
	classes       *ClassesRepo
	orders        *OrdersRepo
	lunch         *LunchRepo
	gallery       *GalleryRepo
	schedule      *ScheduleRepo
	bus           *BusRepo
	notifications *NotificationsRepo
	shop          *ShopRepo
	grades        *GradesRepo
	subjects      *SubjectsRepo
	homework      *HomeworkRepo
	attendance    *AttendanceRepo
	site          *SiteRepo
}

// New creates a gateway client. The session credential lives in the
// transport's cookie jar; it is never exposed to, or stored by, callers.
func New(cfg Config, store *prefs.Store, log *logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("preference store is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.NewDefault("portal")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	c := &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		log: log,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond)+1)
	}

	c.session = newSessionManager(c, store, log)

	c.students = &StudentsRepo{client: c}
	c.teachers = &TeachersRepo{client: c}
	c.classes = &ClassesRepo{client: c}
	c.orders = &OrdersRepo{client: c}
	c.lunch = &LunchRepo{client: c}
	c.gallery = &GalleryRepo{client: c}
	c.schedule = &ScheduleRepo{client: c}
	c.bus = &BusRepo{client: c}
	c.notifications = &NotificationsRepo{client: c}
	c.shop = &ShopRepo{client: c}
	c.grades = &GradesRepo{client: c}
	c.subjects = &SubjectsRepo{client: c}
	c.homework = &HomeworkRepo{client: c}
	c.attendance = &AttendanceRepo{client: c}
	c.site = &SiteRepo{client: c}

	return c, nil
}

// Session returns the session manager.
func (c *Client) Session() *SessionManager { return c.session }

func (c *Client) Students() *StudentsRepo           { return c.students }
func (c *Client) Teachers() *TeachersRepo           { return c.teachers }
func (c *Client) Classes() *ClassesRepo             { return c.classes }
func (c *Client) Orders() *OrdersRepo               { return c.orders }
func (c *Client) Lunch() *LunchRepo                 { return c.lunch }
func (c *Client) Gallery() *GalleryRepo             { return c.gallery }
func (c *Client) ScheduleRepo() *ScheduleRepo       { return c.schedule }
func (c *Client) Bus() *BusRepo                     { return c.bus }
func (c *Client) Notifications() *NotificationsRepo { return c.notifications }
func (c *Client) Shop() *ShopRepo                   { return c.shop }
func (c *Client) Grades() *GradesRepo               { return c.grades }
func (c *Client) Subjects() *SubjectsRepo           { return c.subjects }
func (c *Client) Homework() *HomeworkRepo           { return c.homework }
func (c *Client) Attendance() *AttendanceRepo       { return c.attendance }
func (c *Client) Site() *SiteRepo                   { return c.site }

// =============================================================================
// Transport
// =============================================================================

// send performs the bare HTTP exchange. Only transport-level failures are
// classified here; status handling belongs to request (and to the auth flow,
// which treats 401 differently).
func (c *Client) send(ctx context.Context, method, endpoint string, body []byte, contentType string) (*http.Response, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, networkError()
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	// Multipart bodies carry their own boundary-bearing content type; an
	// empty contentType means the transport must not force one.
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", contentTypeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithField("endpoint", endpoint).Warnf("transport failure: %v", err)
		return nil, nil, networkError()
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, nil, networkError()
	}
	return resp, data, nil
}

// request is the single authenticated primitive behind every repository. A
// 401 response is the one and only trigger for the forced-logout transition.
func (c *Client) request(ctx context.Context, method, endpoint string, body []byte, contentType string) ([]byte, error) {
	start := time.Now()
	resource := resourceLabel(endpoint)

	resp, data, err := c.send(ctx, method, endpoint, body, contentType)
	if err != nil {
		observe(resource, method, "network_error", start)
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		observe(resource, method, "unauthorized", start)
		c.session.expire()
		return nil, classify(resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cerr := classify(resp.StatusCode)
		observe(resource, method, string(cerr.Kind), start)
		c.log.WithField("endpoint", endpoint).
			WithField("status", resp.StatusCode).
			Warnf("request failed: %s", cerr.Kind)
		return nil, cerr
	}

	observe(resource, method, "ok", start)
	return data, nil
}

// resourceLabel reduces an endpoint to its leading path segment so metric
// cardinality stays bounded.
func resourceLabel(endpoint string) string {
	trimmed := strings.TrimPrefix(endpoint, "/")
	if i := strings.IndexAny(trimmed, "/?"); i >= 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		return "root"
	}
	return trimmed
}

// =============================================================================
// Shared repository helpers
// =============================================================================

// fetchJSON is the strict read path: it surfaces classified errors so batch
// loaders and gating decisions can react. Repository Get methods wrap it
// with degrade-to-default semantics.
func fetchJSON[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var out T
	data, err := c.request(ctx, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return out, err
	}
	if err := unmarshalWire(data, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return out, nil
}

// saveJSON posts a full wire-translated payload. Writes always surface
// failures; silent write failure is unacceptable data loss.
func saveJSON(ctx context.Context, c *Client, endpoint string, payload interface{}) error {
	body, err := marshalWire(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", endpoint, err)
	}
	_, err = c.request(ctx, http.MethodPost, endpoint, body, contentTypeJSON)
	return err
}
