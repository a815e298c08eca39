package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/viola-academy/portal-client/pkg/logger"
	"github.com/viola-academy/portal-client/prefs"
)

const (
	endpointLogin  = "/auth/login"
	endpointLogout = "/auth/logout"
	endpointMe     = "/auth/me"
)

var (
	parentPhonePattern   = regexp.MustCompile(`^\d{4,10}$`)
	teacherEmailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	adminUsernamePattern = regexp.MustCompile(`^\S{3,}$`)
)

// SessionManager owns the authentication lifecycle. The credential itself is
// an HttpOnly cookie held by the transport's jar; the manager tracks only the
// resolved identity and the local markers derived from it.
type SessionManager struct {
	client *Client
	store  *prefs.Store
	log    *logger.Logger

	mu       sync.Mutex
	identity *UserIdentity
	onLogout func(surface string)
}

func newSessionManager(client *Client, store *prefs.Store, log *logger.Logger) *SessionManager {
	return &SessionManager{
		client: client,
		store:  store,
		log:    log.WithField("component", "session"),
	}
}

// SetLogoutHook registers the callback invoked when the session ends, either
// explicitly or through forced expiry. The surface argument names the page
// the UI should navigate to.
func (m *SessionManager) SetLogoutHook(fn func(surface string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLogout = fn
}

// Identity returns the locally cached identity, or nil when anonymous.
func (m *SessionManager) Identity() *UserIdentity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return nil
	}
	id := *m.identity
	return &id
}

// LoginParent authenticates a parent by phone number and password.
func (m *SessionManager) LoginParent(ctx context.Context, phone, password string) (*UserIdentity, error) {
	var fields []FieldError
	if !parentPhonePattern.MatchString(phone) {
		fields = append(fields, FieldError{Field: "phone", Message: "Enter the phone number registered with the school."})
	}
	if len(password) < 4 {
		fields = append(fields, FieldError{Field: "password", Message: "Password must be at least 4 characters."})
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fmt.Errorf("invalid parent credentials"), fields...)
	}
	return m.login(ctx, RoleParent, map[string]string{
		"phone":    phone,
		"password": password,
	})
}

// LoginTeacher authenticates a teacher by email and password.
func (m *SessionManager) LoginTeacher(ctx context.Context, email, password string) (*UserIdentity, error) {
	var fields []FieldError
	if !teacherEmailPattern.MatchString(email) {
		fields = append(fields, FieldError{Field: "email", Message: "Enter a valid email address."})
	}
	if len(password) < 4 {
		fields = append(fields, FieldError{Field: "password", Message: "Password must be at least 4 characters."})
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fmt.Errorf("invalid teacher credentials"), fields...)
	}
	return m.login(ctx, RoleTeacher, map[string]string{
		"email":    email,
		"password": password,
	})
}

// LoginAdmin authenticates an administrator by username and password.
func (m *SessionManager) LoginAdmin(ctx context.Context, username, password string) (*UserIdentity, error) {
	var fields []FieldError
	if !adminUsernamePattern.MatchString(username) {
		fields = append(fields, FieldError{Field: "username", Message: "Username must be at least 3 characters without spaces."})
	}
	if len(password) < 4 {
		fields = append(fields, FieldError{Field: "password", Message: "Password must be at least 4 characters."})
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fmt.Errorf("invalid admin credentials"), fields...)
	}
	return m.login(ctx, RoleAdmin, map[string]string{
		"username": username,
		"password": password,
	})
}

// login posts credentials and, on success, records the resolved identity and
// its non-sensitive session markers. A 401 or 403 here is a credential
// failure, not session expiry; the forced-logout path never fires during
// login.
func (m *SessionManager) login(ctx context.Context, role Role, creds map[string]string) (*UserIdentity, error) {
	payload := map[string]string{"role": string(role)}
	for k, v := range creds {
		payload[k] = v
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode credentials: %w", err)
	}

	resp, data, err := m.client.send(ctx, http.MethodPost, endpointLogin, body, contentTypeJSON)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, authError(resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, classify(resp.StatusCode)
	}

	identity, err := decodeIdentity(data)
	if err != nil {
		return nil, err
	}
	if identity == nil || identity.ID == "" && identity.Name == "" {
		return nil, authError(resp.StatusCode)
	}
	if identity.Role == "" {
		identity.Role = string(role)
	}

	m.mu.Lock()
	m.identity = identity
	m.mu.Unlock()

	switch Role(identity.Role) {
	case RoleParent:
		m.store.SetSessionMarker(prefs.KeyCurrentStudentID, identity.ID)
	case RoleTeacher:
		m.store.SetSessionMarker(prefs.KeyCurrentTeacher, identity.ID)
	}

	m.log.WithField("role", identity.Role).Info("login succeeded")
	return identity, nil
}

// CurrentUser resolves the live session against the backend. An anonymous
// session is not an error: it returns (nil, nil) so gated surfaces can
// redirect without surfacing a failure banner.
func (m *SessionManager) CurrentUser(ctx context.Context) (*UserIdentity, error) {
	data, err := m.client.request(ctx, http.MethodGet, endpointMe, nil, "")
	if err != nil {
		if IsKind(err, KindSessionExpired) {
			return nil, nil
		}
		return nil, err
	}
	identity, err := decodeIdentity(data)
	if err != nil {
		return nil, err
	}
	if identity != nil {
		m.mu.Lock()
		m.identity = identity
		m.mu.Unlock()
	}
	return identity, nil
}

// Logout ends the session. The server call is best effort; local cleanup
// always runs so the UI can never be stuck half logged in.
func (m *SessionManager) Logout(ctx context.Context) {
	if _, _, err := m.client.send(ctx, http.MethodPost, endpointLogout, nil, contentTypeJSON); err != nil {
		m.log.Warnf("server logout failed, clearing local state anyway: %v", err)
	}

	m.mu.Lock()
	m.identity = nil
	hook := m.onLogout
	m.mu.Unlock()

	m.store.ClearSessionMarkers()
	m.log.Info("logged out")
	if hook != nil {
		hook(SurfaceLogin)
	}
}

// expire performs the forced-logout transition after the transport saw a 401.
// It runs at most once per authenticated epoch: repeated 401s from concurrent
// requests find identity already nil and do nothing.
func (m *SessionManager) expire() {
	m.mu.Lock()
	if m.identity == nil {
		m.mu.Unlock()
		return
	}
	role := m.identity.Role
	m.identity = nil
	hook := m.onLogout
	m.mu.Unlock()

	m.store.ClearSessionMarkers()
	m.log.WithField("role", role).Warn("session expired, forcing logout")
	if hook != nil {
		hook(SurfaceLogin)
	}
}

// RequireRole gates a surface on the locally cached identity. It returns the
// redirect target when access is denied: the login page for anonymous
// visitors, the caller's own dashboard for a role mismatch. This is a UX
// affordance; the server enforces authorization on every request regardless.
func (m *SessionManager) RequireRole(role Role) (ok bool, redirect string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return false, SurfaceLogin
	}
	if Role(m.identity.Role) != role {
		return false, HomeSurface(Role(m.identity.Role))
	}
	return true, ""
}

// ReverifyAdmin re-checks an administrator credential before a destructive
// operation. It posts through a jar-less throwaway client so the live session
// cookie is neither replaced nor invalidated, and the credential is never
// persisted anywhere.
func (m *SessionManager) ReverifyAdmin(ctx context.Context, username, password string) error {
	payload, err := json.Marshal(map[string]string{
		"role":     string(RoleAdmin),
		"username": username,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	bare := &http.Client{Timeout: m.client.http.Timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.client.baseURL+endpointLogin, strings.NewReader(string(payload)))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	resp, err := bare.Do(req)
	if err != nil {
		return networkError()
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return authError(resp.StatusCode)
	default:
		return classify(resp.StatusCode)
	}
}

// decodeIdentity accepts both response shapes the backend has used: a bare
// identity object and a {"user": {...}} envelope.
func decodeIdentity(data []byte) (*UserIdentity, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var envelope struct {
		User *UserIdentity `json:"user"`
	}
	if err := unmarshalWire(data, &envelope); err == nil && envelope.User != nil {
		return envelope.User, nil
	}
	var identity UserIdentity
	if err := unmarshalWire(data, &identity); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	if identity == (UserIdentity{}) {
		return nil, nil
	}
	return &identity, nil
}
