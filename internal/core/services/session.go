package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
	"github.com/custodia-labs/fabricctl/internal/core/ports/driven"
	"github.com/custodia-labs/fabricctl/internal/core/ports/driving"
)

// Ensure SessionManager implements the interface.
var _ driving.SessionService = (*SessionManager)(nil)

// SessionManager resolves which token source is active, obtains and
// refreshes tokens through it, and hands bearer tokens to every
// downstream command handler.
//
// Precedence is fixed: a manual environment token, when present,
// overrides the active source for every request regardless of which
// login ran last. The manager never falls back to a different source on
// failure; silently switching identities would make an automation tool
// unauditable.
//
// The refresh path is guarded by a mutex, so concurrent callers share a
// single in-flight acquire per manager instance.
type SessionManager struct {
	mu     sync.Mutex
	manual driven.OverrideSource
	active driven.TokenSource
	cache  *TokenCache
	store  driven.SessionStore
	now    func() time.Time
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithManualSource installs the environment-token override source.
func WithManualSource(src driven.OverrideSource) SessionOption {
	return func(m *SessionManager) { m.manual = src }
}

// WithSessionStore enables file-backed persistence of session state.
func WithSessionStore(store driven.SessionStore) SessionOption {
	return func(m *SessionManager) { m.store = store }
}

// WithSafetyMargin overrides the token expiry lead time.
func WithSafetyMargin(margin time.Duration) SessionOption {
	return func(m *SessionManager) { m.cache = NewTokenCache(margin) }
}

// WithClock overrides the time source. Used by tests to advance past
// token expiry.
func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

// WithRestoredSession seeds the manager with a source and credentials
// loaded from a previous invocation's persisted state.
func WithRestoredSession(source driven.TokenSource, creds map[domain.Audience]*domain.Credential) SessionOption {
	return func(m *SessionManager) {
		m.active = source
		m.cache.Restore(creds)
	}
}

// NewSessionManager creates a session manager. With no options it
// starts unauthenticated, caches in memory only, and uses the real
// clock.
func NewSessionManager(opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		cache: NewTokenCache(DefaultSafetyMargin),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.store != nil {
		m.cache.SetPersistHook(func(creds map[domain.Audience]*domain.Credential) error {
			return m.store.Save(context.Background(), m.stateFor(creds))
		})
	}
	return m
}

// Login validates the source eagerly, so a bad client secret or tenant
// fails now rather than on the first resource command. On failure the
// manager is left exactly as it was: no partial state mutation.
func (m *SessionManager) Login(ctx context.Context, source driven.TokenSource) error {
	cred, err := source.Acquire(ctx, domain.AudienceFabric)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = source
	if err := m.cache.Clear(); err != nil {
		return err
	}
	return m.cache.Store(domain.AudienceFabric, cred)
}

// Logout clears the active source, cached credentials, and persisted
// session state.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = nil
	m.cache.Restore(nil)
	if m.store == nil {
		return nil
	}
	return m.store.Clear(ctx)
}

// BearerToken returns a valid token for the Fabric API.
func (m *SessionManager) BearerToken(ctx context.Context) (string, error) {
	return m.BearerTokenFor(ctx, domain.AudienceFabric)
}

// BearerTokenFor returns a valid token for the given audience.
//
// Resolution order:
//  1. Manual environment token, when present. It bypasses the cache and
//     the active-source state entirely.
//  2. No active source: AuthError{NotLoggedIn}.
//  3. Cached credential past its safety margin: exactly one refresh
//     through the active source.
//  4. The cached token.
func (m *SessionManager) BearerTokenFor(ctx context.Context, audience domain.Audience) (string, error) {
	if m.manual != nil && m.manual.Present() {
		cred, err := m.manual.Acquire(ctx, audience)
		if err != nil {
			return "", err
		}
		return cred.Token, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return "", domain.NewAuthError(domain.AuthNotLoggedIn, nil)
	}

	if cred, ok := m.cache.Get(audience); ok && !m.cache.IsExpired(audience, m.now()) {
		return cred.Token, nil
	}

	cred, err := m.active.Acquire(ctx, audience)
	if err != nil {
		return "", err
	}
	if err := m.cache.Store(audience, cred); err != nil {
		return "", err
	}
	return cred.Token, nil
}

// Invalidate drops the cached credential for an audience. The next
// BearerTokenFor call performs a fresh acquire.
func (m *SessionManager) Invalidate(audience domain.Audience) {
	m.mu.Lock()
	defer m.mu.Unlock()

	creds := m.cache.Snapshot()
	delete(creds, audience)
	m.cache.Restore(creds)
}

// Status describes the current session for display.
func (m *SessionManager) Status() driving.SessionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := driving.SessionStatus{
		ManualOverride: m.manual != nil && m.manual.Present(),
	}
	if m.active == nil {
		return status
	}

	status.Authenticated = true
	status.Kind = m.active.Kind()
	if cred, ok := m.cache.Get(domain.AudienceFabric); ok {
		status.ExpiresAt = cred.ExpiresAt
	}
	return status
}

// stateFor composes the durable session state for the persist hook.
// Callers hold m.mu through the cache mutation that triggers the hook.
func (m *SessionManager) stateFor(creds map[domain.Audience]*domain.Credential) *domain.SessionState {
	state := &domain.SessionState{Credentials: creds}
	if m.active != nil {
		state.Kind = m.active.Kind()
		if persister, ok := m.active.(driven.StatePersister); ok {
			persister.PersistInto(state)
		}
	}
	return state
}
