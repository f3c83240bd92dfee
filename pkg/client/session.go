package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore persists the session token on the client machine.
type TokenStore interface {
	// Load returns the stored token, or "" when none is stored.
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in a single file readable only by the owner.
type FileTokenStore struct {
	Path string
}

func (s FileTokenStore) Load() (string, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (s FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.Path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	// WriteFile keeps the mode of a pre-existing file.
	if err := os.Chmod(s.Path, 0o600); err != nil {
		return fmt.Errorf("chmod token file: %w", err)
	}
	return nil
}

func (s FileTokenStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// MemoryTokenStore keeps the token in process memory.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// SessionState is where a Session is in its lifecycle.
type SessionState int

const (
	// SessionEmpty: no token has been held yet.
	SessionEmpty SessionState = iota
	// SessionHolding: a token is held and attached to requests.
	SessionHolding
	// SessionCleared: a token was held and has been dropped, by logout or
	// because the server rejected it.
	SessionCleared
)

func (s SessionState) String() string {
	switch s {
	case SessionHolding:
		return "holding"
	case SessionCleared:
		return "cleared"
	default:
		return "empty"
	}
}

// Session holds the current token and mirrors it into a TokenStore.
type Session struct {
	mu    sync.RWMutex
	store TokenStore
	token string
	state SessionState
}

// NewSession restores a previously stored token, if any.
func NewSession(store TokenStore) (*Session, error) {
	if store == nil {
		store = &MemoryTokenStore{}
	}
	token, err := store.Load()
	if err != nil {
		return nil, err
	}

	s := &Session{store: store}
	if token != "" {
		s.token = token
		s.state = SessionHolding
	}
	return s, nil
}

// Token returns the held token and whether there is one.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.state == SessionHolding
}

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Set stores token and moves the session to SessionHolding.
func (s *Session) Set(token string) error {
	if token == "" {
		return errors.New("client: empty token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(token); err != nil {
		return err
	}
	s.token = token
	s.state = SessionHolding
	return nil
}

// Clear drops the token from memory and from the store. The in-memory
// token is dropped even when the store fails.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.state = SessionCleared
	return s.store.Clear()
}
