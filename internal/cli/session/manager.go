package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/lvyanru/triagectl/internal/cli/types"
)

// Storage keys
const (
	TokenKey = "auth_token"
	UserKey  = "user_data"
)

// Session is the stored bearer token plus the cached user record
type Session struct {
	Token string
	User  *types.User
}

// Manager owns the process-wide session. It reads the storage once on
// Open and writes through on Save and Clear.
type Manager struct {
	mu      sync.RWMutex
	storage Storage
	current Session
	logger  *slog.Logger
}

// Open creates a manager and reads the stored session
func Open(storage Storage, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{storage: storage, logger: logger}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload re-reads the storage, picking up writes made by other processes
func (m *Manager) Reload() error {
	token, _, err := m.storage.Get(TokenKey)
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	var user *types.User
	raw, ok, err := m.storage.Get(UserKey)
	if err != nil {
		return fmt.Errorf("failed to read user: %w", err)
	}
	if ok && raw != "" {
		var u types.User
		if err := sonic.UnmarshalString(raw, &u); err != nil {
			// A corrupt user record reads as no user, the token still counts
			m.logger.Warn("ignoring unreadable cached user", "error", err)
		} else {
			user = &u
		}
	}

	m.mu.Lock()
	m.current = Session{Token: token, User: user}
	m.mu.Unlock()
	return nil
}

// Save persists token and user together. Nothing is written when either
// is missing.
func (m *Manager) Save(token string, user *types.User) error {
	if token == "" || user == nil {
		return fmt.Errorf("session requires both token and user")
	}

	raw, err := sonic.MarshalString(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	if err := m.storage.SetAll(map[string]string{
		TokenKey: token,
		UserKey:  raw,
	}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	u := *user
	m.mu.Lock()
	m.current = Session{Token: token, User: &u}
	m.mu.Unlock()

	m.logger.Info("session saved", "user_id", user.ID, "role", user.Role)
	return nil
}

// Clear removes both keys unconditionally
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.current = Session{}
	m.mu.Unlock()

	if err := m.storage.Remove(TokenKey, UserKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	m.logger.Info("session cleared")
	return nil
}

// Current returns a copy of the session
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.current
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Token returns the bearer token, empty when logged out
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Token
}

// User returns a copy of the cached user, nil when absent
func (m *Manager) User() *types.User {
	return m.Current().User
}

// IsLoggedIn reports whether a token is stored. The token is never
// checked for expiry.
func (m *Manager) IsLoggedIn() bool {
	return m.Token() != ""
}

// IsDoctor reports whether the cached user has the doctor role
func (m *Manager) IsDoctor() bool {
	return m.User().IsDoctor()
}

// Close closes the storage
func (m *Manager) Close() error {
	return m.storage.Close()
}
