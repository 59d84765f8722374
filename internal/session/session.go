// Package session owns the single authenticated session: hydration
// from persisted storage at startup, replacement at login or
// registration, and destruction at logout. Nothing else holds session
// state; views receive it explicitly from the app model.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ruhithpasha/emsfrontend/internal/credential"
	"github.com/Ruhithpasha/emsfrontend/internal/model"
)

const tokenKey = "ems-bearer-token"

// TokenStore abstracts where the bearer token is persisted. The
// default implementation is the system keyring.
type TokenStore interface {
	Get() (string, error)
	Set(token string) error
	Delete() error
}

// keyringTokenStore stores the token in the system keyring.
type keyringTokenStore struct{}

func (keyringTokenStore) Get() (string, error) { return credential.Get(tokenKey) }
func (keyringTokenStore) Set(t string) error   { return credential.Set(tokenKey, t) }
func (keyringTokenStore) Delete() error        { return credential.Delete(tokenKey) }

// Manager is the explicit holder of the process-wide session.
type Manager struct {
	path   string
	tokens TokenStore

	mu      sync.RWMutex
	current *model.Session
}

// NewManager creates a session manager persisting the profile to
// dir/session.json and the token to the system keyring.
func NewManager(dir string) *Manager {
	return &Manager{
		path:   filepath.Join(dir, "session.json"),
		tokens: keyringTokenStore{},
	}
}

// NewManagerWithTokenStore creates a session manager with a custom
// token store.
func NewManagerWithTokenStore(dir string, tokens TokenStore) *Manager {
	return &Manager{
		path:   filepath.Join(dir, "session.json"),
		tokens: tokens,
	}
}

// Load hydrates the session from persisted storage. A missing file,
// missing token, or expired token all resolve to a logged-out state
// (nil session, nil error).
func (m *Manager) Load() (*model.Session, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session file %s: %w", m.path, err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parsing session file %s: %w", m.path, err)
	}

	token, err := m.tokens.Get()
	if err != nil || token == "" {
		return nil, nil
	}
	sess.Token = token

	// The file's role is a cache; the token claims win when present.
	if role, exp := claimsFromToken(token); role.Valid() {
		sess.Role = role
		sess.ExpiresAt = exp
	}

	if !sess.Role.Valid() || sess.Expired() {
		_ = m.Clear()
		return nil, nil
	}

	m.mu.Lock()
	m.current = &sess
	m.mu.Unlock()

	return &sess, nil
}

// Set replaces the session after a successful login or registration
// and persists it.
func (m *Manager) Set(token string, role model.Role, profile model.Profile) (*model.Session, error) {
	sess := model.Session{
		Role:    role,
		Profile: profile,
		Token:   token,
	}
	if claimRole, exp := claimsFromToken(token); claimRole.Valid() {
		sess.Role = claimRole
		sess.ExpiresAt = exp
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return nil, fmt.Errorf("writing session file %s: %w", m.path, err)
	}

	if err := m.tokens.Set(token); err != nil {
		return nil, fmt.Errorf("storing token: %w", err)
	}

	m.mu.Lock()
	m.current = &sess
	m.mu.Unlock()

	return &sess, nil
}

// Clear destroys the session and removes all persisted state.
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	// A token that was never stored is not a failure to log out.
	_ = m.tokens.Delete()

	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file %s: %w", m.path, err)
	}

	return nil
}

// Current returns the live session, or nil when logged out.
func (m *Manager) Current() *model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// claimsFromToken extracts the role and expiry from the JWT without
// verifying the signature. The client has no signing secret; the
// backend re-validates the token on every request, so the claims are
// only used for routing and expiry display.
func claimsFromToken(token string) (model.Role, time.Time) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", time.Time{}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", time.Time{}
	}

	role, _ := claims["role"].(string)

	var exp time.Time
	if expAt, err := claims.GetExpirationTime(); err == nil && expAt != nil {
		exp = expAt.Time
	}

	return model.Role(role), exp
}
