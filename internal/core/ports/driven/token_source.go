package driven

import (
	"context"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
)

// TokenSource acquires bearer tokens from one authentication backend.
// Implementations cover the three supported flows: manual environment
// token, service-principal client-credential exchange, and the ambient
// Azure CLI session.
type TokenSource interface {
	// Acquire obtains a credential scoped to the given audience.
	// Failures are reported as *domain.AuthError with a classified
	// reason (bad secret, network failure, no interactive session).
	Acquire(ctx context.Context, audience domain.Audience) (*domain.Credential, error)

	// Kind identifies the source variant.
	Kind() domain.CredentialKind
}

// OverrideSource is a TokenSource backed by an external value that may
// or may not be configured. When Present reports true the source takes
// absolute precedence over whichever source was activated by login.
type OverrideSource interface {
	TokenSource

	// Present reports whether the backing value is set and non-empty.
	Present() bool
}

// StatePersister is implemented by token sources whose construction
// parameters must be persisted for the session to be restored in a
// later CLI invocation (the service principal flow).
type StatePersister interface {
	// PersistInto writes the source's construction parameters into the
	// session state about to be saved.
	PersistInto(state *domain.SessionState)
}
