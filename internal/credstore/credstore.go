// Package credstore persists the session token as a cookie record on disk.
//
// The record mirrors the attributes a browser would keep for the session
// cookie: a fixed name, an expiry, root path, and strict same-site scope.
// The store is a pure persistence shim; it never inspects the token value.
package credstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// CookieName is the name under which the session token is stored.
const CookieName = "sessionId"

// cookieRecord is the on-disk shape of the persisted session cookie.
type cookieRecord struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Expires  time.Time `json:"expires"`
	Path     string    `json:"path"`
	SameSite string    `json:"same_site"`
}

// Store reads and writes the single persisted session cookie.
type Store struct {
	path string

	// now is overridable for tests.
	now func() time.Time
}

// New creates a Store backed by the given file path.
func New(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Set persists the token with an expiry ttlDays days from now, root path,
// and strict same-site scope. The file is written with mode 0600.
func (s *Store) Set(token string, ttlDays int) error {
	rec := cookieRecord{
		Name:     CookieName,
		Value:    token,
		Expires:  s.now().AddDate(0, 0, ttlDays),
		Path:     "/",
		SameSite: "strict",
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Get returns the stored token. An unreadable, unparseable, or expired
// record behaves as absence, the way a browser drops an expired cookie.
func (s *Store) Get() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	var rec cookieRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", false
	}
	if rec.Value == "" {
		return "", false
	}
	if !rec.Expires.IsZero() && !s.now().Before(rec.Expires) {
		return "", false
	}
	return rec.Value, true
}

// Remove clears the stored cookie unconditionally.
// A missing file is not an error.
func (s *Store) Remove() error {
	err := os.Remove(s.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
