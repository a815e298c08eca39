// Package prefs implements the durable local preference store for the portal
// data layer. It holds strictly non-sensitive UI state: language choice,
// shopping carts, the display-only wallet mirror, and local settings.
// Authentication material is never written here; the session credential lives
// in an HttpOnly cookie owned by the transport.
//
// Storage is pluggable through the Backend interface. Reads degrade to the
// caller-supplied default on missing or corrupt entries; write failures are
// logged and never propagated, so a full disk or unreachable Redis can not
// crash a rendering surface.
package prefs

import (
	"encoding/json"
	"strings"

	"github.com/viola-academy/portal-client/pkg/logger"
)

// DefaultNamespace is the fixed application prefix applied to every key.
const DefaultNamespace = "viola_"

// Well-known key suffixes (namespace applied by the Store).
const (
	KeyLanguage         = "language"
	KeySettings         = "settings"
	KeyStudentCredit    = "student_credit"
	KeyCart             = "cart"
	KeyCartLunch        = "cart_lunch"
	KeyCartShop         = "cart_shop"
	KeyCurrentStudentID = "current_student_id"
	KeyCurrentTeacher   = "current_teacher_email"
	KeyPreviewTeacher   = "preview_teacher"
	KeyPreviewStudentID = "preview_student_id"
)

// Backend is a raw string key-value store.
type Backend interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)
}

// Settings is the local UI settings blob.
type Settings struct {
	SchoolName string `json:"schoolName"`
	Phone      string `json:"phone"`
	Year       string `json:"year"`
	Language   string `json:"language"`
}

// DefaultSettings mirrors the values a fresh installation shows.
func DefaultSettings() Settings {
	return Settings{
		SchoolName: "Viola Academy",
		Phone:      "+962 79 000 0000",
		Year:       "2026-2027",
		Language:   "English",
	}
}

// Store is a typed, namespaced view over a Backend.
type Store struct {
	backend   Backend
	namespace string
	log       *logger.Logger
}

// NewStore wraps a backend with the given namespace prefix. An empty
// namespace selects DefaultNamespace.
func NewStore(backend Backend, namespace string, log *logger.Logger) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if log == nil {
		log = logger.NewDefault("prefs")
	}
	return &Store{backend: backend, namespace: namespace, log: log}
}

func (s *Store) key(suffix string) string { return s.namespace + suffix }

// Load reads the JSON value stored under key into dst. It reports false on a
// missing, unreadable, or corrupt entry, leaving dst untouched in the corrupt
// case only as far as json.Unmarshal got.
func (s *Store) Load(key string, dst interface{}) bool {
	raw, ok, err := s.backend.Get(s.key(key))
	if err != nil {
		s.log.WithField("key", key).Warnf("read failed: %v", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.log.WithField("key", key).Warnf("corrupt entry ignored: %v", err)
		return false
	}
	return true
}

// Set stores value under key as JSON. Failures are logged, never returned.
func (s *Store) Set(key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.WithField("key", key).Errorf("encode failed: %v", err)
		return
	}
	if err := s.backend.Set(s.key(key), string(raw)); err != nil {
		s.log.WithField("key", key).Errorf("write failed: %v", err)
	}
}

// Delete removes key. Failures are logged, never returned.
func (s *Store) Delete(key string) {
	if err := s.backend.Delete(s.key(key)); err != nil {
		s.log.WithField("key", key).Warnf("delete failed: %v", err)
	}
}

// Clear removes every entry under this store's namespace and nothing else.
func (s *Store) Clear() {
	keys, err := s.backend.Keys()
	if err != nil {
		s.log.Errorf("list keys failed: %v", err)
		return
	}
	for _, k := range keys {
		if !strings.HasPrefix(k, s.namespace) {
			continue
		}
		if err := s.backend.Delete(k); err != nil {
			s.log.WithField("key", k).Warnf("delete failed: %v", err)
		}
	}
}

// Get reads the value under key, returning fallback when the entry is
// missing or corrupt.
func Get[T any](s *Store, key string, fallback T) T {
	var v T
	if !s.Load(key, &v) {
		return fallback
	}
	return v
}

// =============================================================================
// Typed helpers
// =============================================================================

// PreferredLanguage returns the saved UI language, defaulting to "en".
func (s *Store) PreferredLanguage() string {
	return Get(s, KeyLanguage, "en")
}

// SetPreferredLanguage stores the UI language choice.
func (s *Store) SetPreferredLanguage(lang string) {
	s.Set(KeyLanguage, lang)
}

// Settings returns the local settings blob, or defaults when unset.
func (s *Store) Settings() Settings {
	return Get(s, KeySettings, DefaultSettings())
}

// SaveSettings stores the local settings blob.
func (s *Store) SaveSettings(settings Settings) {
	s.Set(KeySettings, settings)
}

// StudentCredit returns the locally mirrored wallet balance. The mirror is a
// read optimization of the authoritative student record, never a second
// source of truth.
func (s *Store) StudentCredit() float64 {
	return Get(s, KeyStudentCredit, 0.0)
}

// SetStudentCredit updates the wallet-balance mirror.
func (s *Store) SetStudentCredit(amount float64) {
	s.Set(KeyStudentCredit, amount)
}

// SessionMarker returns a non-sensitive session marker (cached ids for UI
// display, preview selections). Distinct from the authentication credential,
// which is never stored here.
func (s *Store) SessionMarker(key string) string {
	return Get(s, key, "")
}

// SetSessionMarker stores a non-sensitive session marker.
func (s *Store) SetSessionMarker(key, value string) {
	s.Set(key, value)
}

// ClearSessionMarkers removes every session marker. Called on logout and on
// forced session expiry.
func (s *Store) ClearSessionMarkers() {
	for _, k := range []string{
		KeyCurrentStudentID,
		KeyCurrentTeacher,
		KeyPreviewTeacher,
		KeyPreviewStudentID,
	} {
		s.Delete(k)
	}
}
