// Package portaltest provides an in-process fake of the school portal backend
// for package tests. It speaks the real wire protocol: snake_case JSON
// bodies, an HttpOnly session cookie, multipart upload endpoints, and the
// same status codes the production server returns.
package portaltest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

// SessionCookie is the cookie name the fake backend issues.
const SessionCookie = "viola_session"

// Credentials the fake accepts, keyed by role.
var (
	ParentPhone     = "0791234567"
	ParentPassword  = "pass1234"
	TeacherEmail    = "t@viola.edu"
	TeacherPassword = "teach123"
	AdminUser       = "admin"
	AdminPassword   = "secret99"
)

// Record is one observed request.
type Record struct {
	Method      string
	Path        string
	ContentType string
	Body        []byte
}

// Server is the fake backend.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	store       map[string]string // resource path -> raw wire JSON
	records     []Record
	forced      map[string]int // resource path -> status, "" key forces all
	requireAuth bool
	sessions    map[string]string // token -> role
	nextToken   int
}

// New starts a fake backend. Close it with Server.Close.
func New() *Server {
	s := &Server{
		store:       make(map[string]string),
		forced:      make(map[string]int),
		sessions:    make(map[string]string),
		requireAuth: true,
	}

	r := mux.NewRouter()
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)
	r.PathPrefix("/").HandlerFunc(s.handleResource)

	s.Server = httptest.NewServer(r)
	return s
}

// SetRequireAuth toggles the session check on resource routes.
func (s *Server) SetRequireAuth(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireAuth = v
}

// Seed installs the raw wire JSON served for a resource path ("/students").
func (s *Server) Seed(path, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[path] = raw
}

// Stored returns the last body written to a resource path.
func (s *Server) Stored(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store[path]
}

// Force makes every request to path answer with status. An empty path forces
// all resource routes. A zero status clears the override.
func (s *Server) Force(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.forced, path)
		return
	}
	s.forced[path] = status
}

// ForceWrite forces only POST requests to path, leaving reads working. A zero
// status clears the override.
func (s *Server) ForceWrite(path string, status int) {
	s.Force(http.MethodPost+" "+path, status)
}

// ExpireSessions invalidates every issued session token, so the next
// authenticated request sees a 401.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]string)
}

// Requests returns a copy of every observed request, oldest first.
func (s *Server) Requests() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// RequestsTo returns the observed requests whose path starts with prefix.
func (s *Server) RequestsTo(prefix string) []Record {
	var out []Record
	for _, rec := range s.Requests() {
		if strings.HasPrefix(rec.Path, prefix) {
			out = append(out, rec)
		}
	}
	return out
}

// WritesTo returns the observed POST requests whose path starts with prefix.
func (s *Server) WritesTo(prefix string) []Record {
	var out []Record
	for _, rec := range s.RequestsTo(prefix) {
		if rec.Method == http.MethodPost {
			out = append(out, rec)
		}
	}
	return out
}

func (s *Server) record(r *http.Request, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := r.URL.Path
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}
	s.records = append(s.records, Record{
		Method:      r.Method,
		Path:        path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
}

func (s *Server) forcedStatus(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.forced[method+" "+path]; ok {
		return status
	}
	if status, ok := s.forced[path]; ok {
		return status
	}
	return s.forced[""]
}

func (s *Server) authenticated(r *http.Request) (role string, ok bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok = s.sessions[c.Value]
	return role, ok
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.record(r, body)

	var creds map[string]string
	if err := json.Unmarshal(body, &creds); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var identity map[string]string
	switch creds["role"] {
	case "parent":
		if creds["phone"] == ParentPhone && creds["password"] == ParentPassword {
			identity = map[string]string{"id": "s1", "role": "parent", "name": "Lina", "class": "KG1 A"}
		}
	case "teacher":
		if creds["email"] == TeacherEmail && creds["password"] == TeacherPassword {
			identity = map[string]string{"id": TeacherEmail, "role": "teacher", "name": "Ms. Rana", "class": "KG2 B"}
		}
	case "admin":
		if creds["username"] == AdminUser && creds["password"] == AdminPassword {
			identity = map[string]string{"id": "admin", "role": "admin", "name": "Principal"}
		}
	}
	if identity == nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	s.mu.Lock()
	s.nextToken++
	token := "tok" + strings.Repeat("x", s.nextToken)
	s.sessions[token] = identity["role"]
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"user": identity})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.record(r, nil)
	if c, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, c.Value)
		s.mu.Unlock()
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.record(r, nil)
	role, ok := s.authenticated(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user": map[string]string{"id": "u-" + role, "role": role, "name": "Someone"},
	})
}

func (s *Server) handleResource(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		body, _ = io.ReadAll(r.Body)
	} else {
		// Parse the form so boundary errors surface, then keep the fields
		// as the recorded body.
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			http.Error(w, "bad multipart", http.StatusBadRequest)
			return
		}
		fields := make(map[string]string, len(r.MultipartForm.Value))
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				fields[k] = v[0]
			}
		}
		body, _ = json.Marshal(fields)
	}
	s.record(r, body)

	if status := s.forcedStatus(r.Method, r.URL.Path); status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}

	s.mu.Lock()
	requireAuth := s.requireAuth
	s.mu.Unlock()
	if requireAuth {
		if _, ok := s.authenticated(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		raw, ok := s.store[r.URL.Path]
		s.mu.Unlock()
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, raw)
	case http.MethodPost:
		s.mu.Lock()
		s.store[r.URL.Path] = string(body)
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ok":true}`)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
