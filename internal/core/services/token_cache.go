package services

import (
	"sync"
	"time"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
)

// DefaultSafetyMargin is how long before the recorded expiry a token is
// already treated as expired, so a request started just before expiry
// does not race it mid-flight.
const DefaultSafetyMargin = 60 * time.Second

// PersistHook is called after every mutation with a snapshot of the
// cached credentials. Nil disables persistence; cached tokens then live
// only for the lifetime of the process.
type PersistHook func(creds map[domain.Audience]*domain.Credential) error

// TokenCache holds the currently active credential per audience.
// It is owned by the SessionManager and never shared outside it.
type TokenCache struct {
	mu           sync.RWMutex
	creds        map[domain.Audience]*domain.Credential
	safetyMargin time.Duration
	persist      PersistHook
}

// NewTokenCache creates an empty cache. A non-positive margin selects
// DefaultSafetyMargin.
func NewTokenCache(safetyMargin time.Duration) *TokenCache {
	if safetyMargin <= 0 {
		safetyMargin = DefaultSafetyMargin
	}
	return &TokenCache{
		creds:        make(map[domain.Audience]*domain.Credential),
		safetyMargin: safetyMargin,
	}
}

// SetPersistHook installs the persistence hook. Must be called before
// the cache is shared with the session manager.
func (c *TokenCache) SetPersistHook(hook PersistHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.persist = hook
}

// Store records the credential for an audience.
func (c *TokenCache) Store(audience domain.Audience, cred *domain.Credential) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.creds[audience] = cred
	return c.persistLocked()
}

// Get returns the cached credential for an audience, expired or not.
func (c *TokenCache) Get(audience domain.Audience) (*domain.Credential, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cred, ok := c.creds[audience]
	return cred, ok
}

// IsExpired reports whether the cached credential for an audience needs
// refreshing at the given instant. A missing credential is expired; a
// credential with unknown expiry never is.
func (c *TokenCache) IsExpired(audience domain.Audience, now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cred, ok := c.creds[audience]
	if !ok {
		return true
	}
	if !cred.HasKnownExpiry() {
		return false
	}
	return !now.Before(cred.ExpiresAt.Add(-c.safetyMargin))
}

// Clear drops all cached credentials.
func (c *TokenCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.creds = make(map[domain.Audience]*domain.Credential)
	return c.persistLocked()
}

// Restore replaces the cache contents, bypassing the persistence hook.
// Used when loading a previously saved session.
func (c *TokenCache) Restore(creds map[domain.Audience]*domain.Credential) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.creds = make(map[domain.Audience]*domain.Credential, len(creds))
	for aud, cred := range creds {
		c.creds[aud] = cred
	}
}

// Snapshot returns a copy of the cached credentials.
func (c *TokenCache) Snapshot() map[domain.Audience]*domain.Credential {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[domain.Audience]*domain.Credential, len(c.creds))
	for aud, cred := range c.creds {
		out[aud] = cred
	}
	return out
}

// persistLocked invokes the persistence hook. Caller must hold the lock.
func (c *TokenCache) persistLocked() error {
	if c.persist == nil {
		return nil
	}

	out := make(map[domain.Audience]*domain.Credential, len(c.creds))
	for aud, cred := range c.creds {
		out[aud] = cred
	}
	return c.persist(out)
}
