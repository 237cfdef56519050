package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"gigmarket_backend/internal/common"
	"gigmarket_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider accepts the tokens in its map.
type fakeProvider struct {
	mu        sync.Mutex
	tokens    map[string]Identity
	revokeErr error
	revoked   []string
}

func (p *fakeProvider) VerifyIDToken(_ context.Context, token string) (*Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.tokens[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &id, nil
}

func (p *fakeProvider) RevokeSessions(_ context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revoked = append(p.revoked, uid)
	return p.revokeErr
}

func newTestManager(t *testing.T) (*Manager, *fakeProvider) {
	t.Helper()
	provider := &fakeProvider{tokens: map[string]Identity{
		"good-token": {
			User:      User{ID: "uid-1", Email: "ann@example.com", Name: "Ann", PhotoURL: "https://img/ann.png"},
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}}
	cfg := &config.Config{SessionCookieName: "firebaseAuth", SessionCookieMaxAge: time.Hour}
	return NewManager(provider, cfg, zap.NewNop()), provider
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestManager_SignInWritesCookieAndNotifies(t *testing.T) {
	m, _ := newTestManager(t)
	var seen []*User
	m.Subscribe(func(_ context.Context, u *User) error {
		seen = append(seen, u)
		return nil
	})

	rec := httptest.NewRecorder()
	user, err := m.SignIn(context.Background(), rec, "good-token")
	require.NoError(t, err)

	assert.Equal(t, "uid-1", user.ID)
	assert.Equal(t, "Ann", user.Name)
	require.Len(t, seen, 1)
	assert.Equal(t, "uid-1", seen[0].ID)

	c := findCookie(t, rec, "firebaseAuth")
	assert.Equal(t, "good-token", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 3600, c.MaxAge)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.False(t, c.HttpOnly)
}

func TestManager_SignInRejectsBadToken(t *testing.T) {
	m, _ := newTestManager(t)
	notified := false
	m.Subscribe(func(context.Context, *User) error { notified = true; return nil })

	rec := httptest.NewRecorder()
	_, err := m.SignIn(context.Background(), rec, "forged")

	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.False(t, notified)
	assert.Empty(t, rec.Result().Cookies())
}

func TestManager_ListenerFailureDoesNotFailSignIn(t *testing.T) {
	m, _ := newTestManager(t)
	m.Subscribe(func(context.Context, *User) error { return errors.New("profile store down") })
	m.Subscribe(func(context.Context, *User) error { panic("boom") })

	_, err := m.SignIn(context.Background(), httptest.NewRecorder(), "good-token")
	assert.NoError(t, err)
}

func TestManager_SignOutClearsCookieAndRevokes(t *testing.T) {
	m, provider := newTestManager(t)
	provider.revokeErr = errors.New("network down")

	var last *User
	calls := 0
	m.Subscribe(func(_ context.Context, u *User) error { calls++; last = u; return nil })

	rec := httptest.NewRecorder()
	m.SignOut(context.Background(), rec, "good-token")

	assert.Equal(t, 1, calls)
	assert.Nil(t, last)
	assert.Equal(t, []string{"uid-1"}, provider.revoked)

	c := findCookie(t, rec, "firebaseAuth")
	assert.Empty(t, c.Value)
	assert.True(t, c.MaxAge < 0)
	assert.Equal(t, "/", c.Path)

	_, err := m.Resolve(context.Background(), "good-token")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestManager_UnsubscribeAndClose(t *testing.T) {
	m, _ := newTestManager(t)
	calls := 0
	unsubscribe := m.Subscribe(func(context.Context, *User) error { calls++; return nil })
	m.Subscribe(func(context.Context, *User) error { calls += 10; return nil })

	unsubscribe()
	_, _ = m.SignIn(context.Background(), httptest.NewRecorder(), "good-token")
	assert.Equal(t, 10, calls)

	m.Close()
	_, _ = m.SignIn(context.Background(), httptest.NewRecorder(), "good-token")
	assert.Equal(t, 10, calls)
}

func TestManager_ResolveEmptyToken(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestRevocationList_IgnoresExpired(t *testing.T) {
	r := NewRevocationList(time.Minute)
	r.Revoke("old", time.Now().Add(-time.Second))
	r.Revoke("live", time.Now().Add(time.Minute))

	assert.False(t, r.IsRevoked("old"))
	assert.True(t, r.IsRevoked("live"))
}
