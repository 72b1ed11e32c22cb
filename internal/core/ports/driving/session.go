package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
	"github.com/custodia-labs/fabricctl/internal/core/ports/driven"
)

// TokenBroker is the single call surface every resource command handler
// uses to obtain bearer tokens. API clients depend on this interface
// rather than on the session manager directly.
type TokenBroker interface {
	// BearerToken returns a valid token for the Fabric API, refreshing
	// through the active source when the cached one has expired.
	BearerToken(ctx context.Context) (string, error)

	// BearerTokenFor returns a valid token for the given audience.
	BearerTokenFor(ctx context.Context, audience domain.Audience) (string, error)

	// Invalidate drops the cached credential for an audience so the
	// next BearerTokenFor call performs a fresh acquire. Used by API
	// clients for the one forced refresh-and-retry after a 401.
	Invalidate(audience domain.Audience)
}

// SessionService manages the authentication session lifecycle.
type SessionService interface {
	TokenBroker

	// Login validates a source eagerly and makes it the active one.
	// Only one source is active at a time; a later Login replaces the
	// prior source and its cached credentials.
	Login(ctx context.Context, source driven.TokenSource) error

	// Logout clears the active source, cached credentials, and any
	// persisted session state.
	Logout(ctx context.Context) error

	// Status describes the current session for display.
	Status() SessionStatus
}

// SessionStatus is a read-only snapshot of the session for `auth status`.
type SessionStatus struct {
	// Authenticated is true when a login has completed (a manual
	// environment token does not count; it is reported separately).
	Authenticated bool

	// Kind is the active source variant, empty when unauthenticated.
	Kind domain.CredentialKind

	// ExpiresAt is the cached Fabric token expiry, zero when unknown.
	ExpiresAt time.Time

	// ManualOverride is true when the manual environment token is set
	// and therefore overrides the active source for every request.
	ManualOverride bool
}
