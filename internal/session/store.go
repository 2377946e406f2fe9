// Package session keeps the bearer token and the last known user between
// runs, the way the browser client used local storage.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"restopos/internal/domain"
	"restopos/internal/dto"
)

type stored struct {
	Token string       `json:"token"`
	User  *dto.UserDTO `json:"user,omitempty"`
}

// FileStore is safe for concurrent use; the api client clears it from
// whichever goroutine saw the 401.
type FileStore struct {
	path string
	now  func() time.Time

	mu    sync.RWMutex
	token string
	user  *domain.User
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Load reads the file. A missing file, an unreadable user or an expired JWT
// all leave the store logged out; only I/O failures are returned.
func (s *FileStore) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading session file: %w", err)
	}

	var st stored
	if err := json.Unmarshal(data, &st); err != nil {
		return s.Clear()
	}
	if st.Token == "" || st.User == nil || expired(st.Token, s.now()) {
		return s.Clear()
	}
	user, err := st.User.ToDomain()
	if err != nil {
		return s.Clear()
	}

	s.mu.Lock()
	s.token = st.Token
	s.user = &user
	s.mu.Unlock()
	return nil
}

// expired reports a past exp claim. Opaque tokens are never considered
// expired here; the backend will answer 401 for them.
func expired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.After(now)
}

func (s *FileStore) Save(token string, user domain.User) error {
	u := dto.UserFromDomain(user)
	data, err := json.MarshalIndent(stored{Token: token, User: &u}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
	return nil
}

func (s *FileStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *FileStore) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *FileStore) Authenticated() bool {
	return s.Token() != ""
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
