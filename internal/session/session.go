// Package session holds the bearer credential for the remote API. A Session is
// created once at startup and handed to the gateway and the synchronizer; the
// only way to drop the credential is Invalidate.
package session

import (
	"errors"
	"sync"

	"github.com/julianstephens/ordiaa/internal/keyring"
	"github.com/julianstephens/ordiaa/internal/logger"
)

// Reasons passed to invalidation hooks
const (
	ReasonLogout  = "logout"
	ReasonExpired = "expired"
)

// TokenStore persists the credential between runs
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Session is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
	store TokenStore
	hooks []func(reason string)
}

// New reads the stored credential. A read failure is logged and leaves the
// session unauthenticated.
func New(store TokenStore) *Session {
	s := &Session{store: store}
	token, err := store.Load()
	if err != nil {
		logger.Warn("Failed to read session token", "error", err)
		return s
	}
	s.token = token
	return s
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Begin stores a freshly issued token. The in-memory session is updated even if
// persisting it fails; the error is returned so the caller can warn.
func (s *Session) Begin(token string) error {
	if token == "" {
		return errors.New("empty session token")
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return s.store.Save(token)
}

// OnInvalidate registers fn to run after the credential is dropped.
func (s *Session) OnInvalidate(fn func(reason string)) {
	s.mu.Lock()
	s.hooks = append(s.hooks, fn)
	s.mu.Unlock()
}

// Invalidate drops the credential from memory and from the store, then runs
// the hooks. Invalidating an unauthenticated session does nothing.
func (s *Session) Invalidate(reason string) {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	s.token = ""
	hooks := make([]func(string), len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		logger.Warn("Failed to clear stored session token", "error", err)
	}
	logger.Info("Session invalidated", "reason", reason)
	for _, fn := range hooks {
		fn(reason)
	}
}

// Logout is Invalidate with the logout reason.
func (s *Session) Logout() {
	s.Invalidate(ReasonLogout)
}

// KeyringTokenStore keeps the token in the OS keyring
type KeyringTokenStore struct{}

func (KeyringTokenStore) Load() (string, error) {
	token, err := keyring.GetSessionToken()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return token, err
}

func (KeyringTokenStore) Save(token string) error {
	return keyring.SetSessionToken(token)
}

func (KeyringTokenStore) Clear() error {
	err := keyring.DeleteSessionToken()
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// MemoryTokenStore forgets the token when the process exits
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore returns a store pre-loaded with token (may be empty).
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (m *MemoryTokenStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryTokenStore) Save(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryTokenStore) Clear() error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
