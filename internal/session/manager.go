package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"gigmarket_backend/internal/common"
	"gigmarket_backend/internal/config"

	"go.uber.org/zap"
)

// Listener is notified after every session change: the user on sign-in, nil on sign-out.
// A returned error is logged and never fails the session operation.
type Listener func(ctx context.Context, user *User) error

// Manager owns session state for the process: listeners, the revocation list and the cookie.
type Manager struct {
	provider IdentityProvider
	revoked  *RevocationList
	cookie   CookieConfig
	logger   *zap.Logger

	mu        sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

func NewManager(provider IdentityProvider, cfg *config.Config, logger *zap.Logger) *Manager {
	return &Manager{
		provider: provider,
		revoked:  NewRevocationList(10 * time.Minute),
		cookie: CookieConfig{
			Name:   cfg.SessionCookieName,
			MaxAge: cfg.SessionCookieMaxAge,
			Secure: cfg.SessionCookieSecure,
		},
		logger:    logger.Named("session"),
		listeners: make(map[int]Listener),
	}
}

// CookieName is the name of the session mirror cookie.
func (m *Manager) CookieName() string {
	return m.cookie.Name
}

// Subscribe registers l and returns a func that removes it.
func (m *Manager) Subscribe(l Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Manager) notify(ctx context.Context, user *User) {
	m.mu.RLock()
	listeners := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.RUnlock()

	for _, l := range listeners {
		m.callListener(ctx, l, user)
	}
}

func (m *Manager) callListener(ctx context.Context, l Listener, user *User) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Session listener panicked", zap.Any("panic", r))
		}
	}()
	if err := l(ctx, user); err != nil {
		fields := []zap.Field{zap.Error(err)}
		if user != nil {
			fields = append(fields, zap.String("uid", user.ID))
		}
		m.logger.Warn("Session listener failed", fields...)
	}
}

// Resolve verifies token for an API request. Signed-out tokens are rejected.
func (m *Manager) Resolve(ctx context.Context, token string) (*User, error) {
	identity, err := m.verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return &identity.User, nil
}

func (m *Manager) verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, common.ErrUnauthorized.WithDetails("Session token is required.")
	}
	if m.revoked.IsRevoked(token) {
		return nil, common.ErrUnauthorized.WithDetails("Session has been signed out.")
	}
	identity, err := m.provider.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, common.ErrUnauthorized.WithDetails("Invalid or expired session token.")
	}
	return identity, nil
}

// SignIn verifies idToken, notifies listeners and mirrors the token into the session cookie.
func (m *Manager) SignIn(ctx context.Context, w http.ResponseWriter, idToken string) (*User, error) {
	identity, err := m.verify(ctx, idToken)
	if err != nil {
		m.logger.Info("Sign-in rejected", zap.Error(err))
		return nil, err
	}
	user := identity.User

	m.cookie.write(w, idToken)
	m.notify(ctx, &user)

	m.logger.Info("User signed in", zap.String("uid", user.ID))
	return &user, nil
}

// SignOut revokes the provider session, remembers the token as revoked, clears the
// cookie and notifies listeners with nil. Provider failures are logged only.
func (m *Manager) SignOut(ctx context.Context, w http.ResponseWriter, token string) {
	if token != "" {
		identity, err := m.provider.VerifyIDToken(ctx, token)
		if err == nil {
			if err := m.provider.RevokeSessions(ctx, identity.User.ID); err != nil {
				m.logger.Warn("Provider sign-out failed; clearing local session anyway",
					zap.String("uid", identity.User.ID), zap.Error(err))
			}
			m.revoked.Revoke(token, identity.ExpiresAt)
		} else {
			m.logger.Debug("Sign-out with unverifiable token", zap.Error(err))
			m.revoked.Revoke(token, time.Now().Add(m.cookie.MaxAge))
		}
	}

	m.cookie.clear(w)
	m.notify(ctx, nil)
}

// Close drops every listener.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = make(map[int]Listener)
}

