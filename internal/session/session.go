// Package session is the explicit identity context handed to every component
// that needs to know who is logged in. It is loaded and cleared only by login
// and logout, never read from ambient global state.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hyperjump/dishhub/internal/models"
)

// Session holds the current user and the opaque credential attached to requests.
type Session struct {
	mu         sync.RWMutex
	user       *models.User
	credential string
}

// New returns an anonymous session.
func New() *Session {
	return &Session{}
}

// Login records user and credential.
func (s *Session) Login(user models.User, credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
	s.credential = credential
}

// Logout forgets the user and credential.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.credential = ""
}

// SetUser replaces the user while keeping the credential, after a "current
// user" lookup.
func (s *Session) SetUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	s.user = &u
}

// User returns the current user, if any.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Credential returns the opaque session credential, or "".
func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// Authenticated reports whether a credential is held.
func (s *Session) Authenticated() bool {
	return s.Credential() != ""
}

// Owns reports whether the current user created r.
func (s *Session) Owns(r *models.Recipe) bool {
	u, ok := s.User()
	return ok && r != nil && u.ID != "" && u.ID == r.CreatedBy
}

type fileState struct {
	User       *models.User `json:"user,omitempty"`
	Credential string       `json:"credential"`
}

// Save writes the session to path with owner-only permissions.
func (s *Session) Save(path string) error {
	s.mu.RLock()
	state := fileState{User: s.user, Credential: s.credential}
	s.mu.RUnlock()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Load reads a session saved by Save. A missing file yields an anonymous session.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &Session{user: state.User, credential: state.Credential}, nil
}

// Clear removes a saved session file. A missing file is not an error.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
