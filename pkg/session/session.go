// Package session stores the account credentials skytune sends to the feed API.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrSessionNotFound is returned by Load when no session has been saved.
var ErrSessionNotFound = errors.New("session not found")

const fileName = "session.json"

// Session identifies the account whose feeds are read.
type Session struct {
	DID       string `json:"did,omitempty"`
	Handle    string `json:"handle,omitempty"`
	AccessJwt string `json:"accessJwt"` // #nosec G117 - JSON field for the API session, not an exposed secret
}

// Store persists a Session as JSON in the config directory.
type Store struct {
	dir string
}

// NewStore creates a store for sessions kept in dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the file the session is stored in.
func (s *Store) Path() string {
	return filepath.Join(s.dir, fileName)
}

// Save writes the session, readable only by the current user.
func (s *Store) Save(sess *Session) error {
	if sess.AccessJwt == "" {
		return errors.New("session has no access token")
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return os.WriteFile(s.Path(), data, 0600)
}

// Load reads the stored session.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.Path()) // #nosec G304 -- fixed file name inside the config dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sess, nil
}

// Clear removes the stored session. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
