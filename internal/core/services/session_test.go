package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
)

// --- Mock implementations for session testing ---

// mockTokenSource implements driven.TokenSource with counted acquires.
type mockTokenSource struct {
	mu       sync.Mutex
	kind     domain.CredentialKind
	tokens   []string
	expiry   time.Duration
	issuedAt time.Time
	err      error
	acquires int
}

func newMockTokenSource(kind domain.CredentialKind, tokens ...string) *mockTokenSource {
	return &mockTokenSource{
		kind:     kind,
		tokens:   tokens,
		expiry:   time.Hour,
		issuedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *mockTokenSource) Acquire(_ context.Context, _ domain.Audience) (*domain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	token := m.tokens[len(m.tokens)-1]
	if m.acquires < len(m.tokens) {
		token = m.tokens[m.acquires]
	}
	m.acquires++

	return &domain.Credential{
		Kind:      m.kind,
		Token:     token,
		ExpiresAt: m.issuedAt.Add(m.expiry),
	}, nil
}

func (m *mockTokenSource) Kind() domain.CredentialKind { return m.kind }

func (m *mockTokenSource) acquireCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquires
}

// mockOverrideSource implements driven.OverrideSource.
type mockOverrideSource struct {
	token    string
	acquires int
}

func (m *mockOverrideSource) Present() bool { return m.token != "" }

func (m *mockOverrideSource) Acquire(_ context.Context, _ domain.Audience) (*domain.Credential, error) {
	m.acquires++
	if m.token == "" {
		return nil, domain.NewAuthError(domain.AuthManualTokenInvalid, nil)
	}
	return &domain.Credential{Kind: domain.KindManual, Token: m.token}, nil
}

func (m *mockOverrideSource) Kind() domain.CredentialKind { return domain.KindManual }

// mockSessionStore implements driven.SessionStore in memory.
type mockSessionStore struct {
	mu     sync.Mutex
	state  *domain.SessionState
	saves  int
	clears int
}

func (m *mockSessionStore) Save(_ context.Context, state *domain.SessionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.saves++
	return nil
}

func (m *mockSessionStore) Load(_ context.Context) (*domain.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil, domain.ErrNotFound
	}
	return m.state, nil
}

func (m *mockSessionStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = nil
	m.clears++
	return nil
}

// --- Tests ---

func TestSessionManager_NotLoggedIn(t *testing.T) {
	manager := NewSessionManager()

	_, err := manager.BearerToken(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsNotLoggedIn(err))
}

func TestSessionManager_LoginThenToken(t *testing.T) {
	source := newMockTokenSource(domain.KindServicePrincipal, "spn-token")
	manager := NewSessionManager(WithClock(fixedClock(source.issuedAt)))

	require.NoError(t, manager.Login(context.Background(), source))

	token, err := manager.BearerToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "spn-token", token)
	assert.Equal(t, 1, source.acquireCount(), "login acquires eagerly; the token call hits the cache")
}

func TestSessionManager_LatestLoginWins(t *testing.T) {
	first := newMockTokenSource(domain.KindServicePrincipal, "first-token")
	second := newMockTokenSource(domain.KindInteractive, "second-token")
	manager := NewSessionManager(WithClock(fixedClock(first.issuedAt)))

	require.NoError(t, manager.Login(context.Background(), first))
	require.NoError(t, manager.Login(context.Background(), second))

	token, err := manager.BearerToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second-token", token)

	status := manager.Status()
	assert.Equal(t, domain.KindInteractive, status.Kind)
}

func TestSessionManager_FailedLoginLeavesStateUntouched(t *testing.T) {
	good := newMockTokenSource(domain.KindServicePrincipal, "good-token")
	manager := NewSessionManager(WithClock(fixedClock(good.issuedAt)))
	require.NoError(t, manager.Login(context.Background(), good))

	bad := newMockTokenSource(domain.KindServicePrincipal, "unused")
	bad.err = domain.NewAuthError(domain.AuthInvalidCredentials, errors.New("AADSTS7000215"))

	err := manager.Login(context.Background(), bad)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidCredentials(err))

	// The prior session still serves tokens.
	token, err := manager.BearerToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "good-token", token)
}

func TestSessionManager_FailedLoginFromUnauthenticated(t *testing.T) {
	bad := newMockTokenSource(domain.KindServicePrincipal, "unused")
	bad.err = domain.NewAuthError(domain.AuthInvalidCredentials, nil)
	manager := NewSessionManager()

	require.Error(t, manager.Login(context.Background(), bad))

	_, err := manager.BearerToken(context.Background())
	assert.True(t, domain.IsNotLoggedIn(err), "a failed first login must not authenticate")
}

func TestSessionManager_RefreshAfterExpiry(t *testing.T) {
	source := newMockTokenSource(domain.KindServicePrincipal, "token-1", "token-2")
	now := source.issuedAt
	manager := NewSessionManager(WithClock(func() time.Time { return now }))

	require.NoError(t, manager.Login(context.Background(), source))

	token, err := manager.BearerToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)

	// Advance past expiry; the next call refreshes exactly once.
	now = source.issuedAt.Add(source.expiry + time.Minute)
	source.issuedAt = now

	token, err = manager.BearerToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", token)
	assert.Equal(t, 2, source.acquireCount())

	// Subsequent calls hit the refreshed cache entry.
	_, err = manager.BearerToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, source.acquireCount())
}

func TestSessionManager_RefreshInsideSafetyMargin(t *testing.T) {
	source := newMockTokenSource(domain.KindServicePrincipal, "token-1", "token-2")
	now := source.issuedAt
	manager := NewSessionManager(WithClock(func() time.Time { return now }))

	require.NoError(t, manager.Login(context.Background(), source))

	// 30s before expiry is inside the 60s margin.
	now = source.issuedAt.Add(source.expiry - 30*time.Second)
	source.issuedAt = now

	token, err := manager.BearerToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", token)
}

func TestSessionManager_ManualOverride(t *testing.T) {
	source := newMockTokenSource(domain.KindServicePrincipal, "spn-token")
	manual := &mockOverrideSource{token: "manual-token"}
	manager := NewSessionManager(
		WithManualSource(manual),
		WithClock(fixedClock(source.issuedAt)),
	)

	require.NoError(t, manager.Login(context.Background(), source))

	token, err := manager.BearerToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "manual-token", token, "environment token overrides the active source")

	// The override serves every audience verbatim.
	token, err = manager.BearerTokenFor(context.Background(), domain.AudienceManagement)
	require.NoError(t, err)
	assert.Equal(t, "manual-token", token)

	assert.Equal(t, 1, source.acquireCount(), "only the eager login acquire ran")
}

func TestSessionManager_ManualOverrideWithoutLogin(t *testing.T) {
	manual := &mockOverrideSource{token: "manual-token"}
	manager := NewSessionManager(WithManualSource(manual))

	token, err := manager.BearerToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "manual-token", token)
}

func TestSessionManager_ManualAbsentFallsThrough(t *testing.T) {
	manual := &mockOverrideSource{} // env var not set
	manager := NewSessionManager(WithManualSource(manual))

	_, err := manager.BearerToken(context.Background())
	assert.True(t, domain.IsNotLoggedIn(err))
	assert.Zero(t, manual.acquires)
}

func TestSessionManager_PerAudienceAcquire(t *testing.T) {
	source := newMockTokenSource(domain.KindServicePrincipal, "fabric-token", "mgmt-token")
	manager := NewSessionManager(WithClock(fixedClock(source.issuedAt)))

	require.NoError(t, manager.Login(context.Background(), source))

	fabricToken, err := manager.BearerTokenFor(context.Background(), domain.AudienceFabric)
	require.NoError(t, err)
	assert.Equal(t, "fabric-token", fabricToken)

	mgmtToken, err := manager.BearerTokenFor(context.Background(), domain.AudienceManagement)
	require.NoError(t, err)
	assert.Equal(t, "mgmt-token", mgmtToken, "management audience needs its own acquire")

	// Both audiences are now cached.
	_, err = manager.BearerTokenFor(context.Background(), domain.AudienceManagement)
	require.NoError(t, err)
	assert.Equal(t, 2, source.acquireCount())
}

func TestSessionManager_Invalidate(t *testing.T) {
	source := newMockTokenSource(domain.KindServicePrincipal, "token-1", "token-2")
	manager := NewSessionManager(WithClock(fixedClock(source.issuedAt)))

	require.NoError(t, manager.Login(context.Background(), source))

	manager.Invalidate(domain.AudienceFabric)

	token, err := manager.BearerToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", token, "invalidate forces a fresh acquire")
}

func TestSessionManager_Logout(t *testing.T) {
	source := newMockTokenSource(domain.KindServicePrincipal, "spn-token")
	store := &mockSessionStore{}
	manager := NewSessionManager(
		WithSessionStore(store),
		WithClock(fixedClock(source.issuedAt)),
	)

	require.NoError(t, manager.Login(context.Background(), source))
	require.NoError(t, manager.Logout(context.Background()))

	_, err := manager.BearerToken(context.Background())
	assert.True(t, domain.IsNotLoggedIn(err))
	assert.Equal(t, 1, store.clears)
	assert.False(t, manager.Status().Authenticated)
}

func TestSessionManager_PersistsOnLogin(t *testing.T) {
	source := newMockTokenSource(domain.KindServicePrincipal, "spn-token")
	store := &mockSessionStore{}
	manager := NewSessionManager(
		WithSessionStore(store),
		WithClock(fixedClock(source.issuedAt)),
	)

	require.NoError(t, manager.Login(context.Background(), source))

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.KindServicePrincipal, state.Kind)
	require.Contains(t, state.Credentials, domain.AudienceFabric)
	assert.Equal(t, "spn-token", state.Credentials[domain.AudienceFabric].Token)
}

func TestSessionManager_RestoredSession(t *testing.T) {
	source := newMockTokenSource(domain.KindServicePrincipal, "refreshed-token")
	issued := source.issuedAt
	manager := NewSessionManager(
		WithClock(fixedClock(issued)),
		WithRestoredSession(source, map[domain.Audience]*domain.Credential{
			domain.AudienceFabric: {
				Kind:      domain.KindServicePrincipal,
				Token:     "restored-token",
				ExpiresAt: issued.Add(time.Hour),
			},
		}),
	)

	token, err := manager.BearerToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "restored-token", token)
	assert.Zero(t, source.acquireCount(), "a fresh restored token needs no acquire")

	status := manager.Status()
	assert.True(t, status.Authenticated)
	assert.Equal(t, domain.KindServicePrincipal, status.Kind)
}

func TestSessionManager_Status(t *testing.T) {
	manager := NewSessionManager()
	status := manager.Status()
	assert.False(t, status.Authenticated)
	assert.False(t, status.ManualOverride)

	manual := &mockOverrideSource{token: "manual"}
	manager = NewSessionManager(WithManualSource(manual))
	assert.True(t, manager.Status().ManualOverride)
}

func TestSessionManager_ConcurrentTokenCalls(t *testing.T) {
	source := newMockTokenSource(domain.KindServicePrincipal, "token-1")
	manager := NewSessionManager(WithClock(fixedClock(source.issuedAt)))
	require.NoError(t, manager.Login(context.Background(), source))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := manager.BearerToken(context.Background())
			if err != nil {
				errs <- err
				return
			}
			if token != "token-1" {
				errs <- fmt.Errorf("unexpected token %q", token)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, 1, source.acquireCount(), "a valid cached token is never re-acquired")
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
