package driven

import (
	"context"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
)

// SessionStore persists session state between CLI invocations.
// Stored state is secret-grade: it may contain bearer tokens and the
// service principal client secret. Implementations must write with
// restrictive permissions.
//
// The session manager works without a store (nil hook); state then
// lives only for the lifetime of the process.
type SessionStore interface {
	// Save replaces the persisted session state.
	Save(ctx context.Context, state *domain.SessionState) error

	// Load returns the persisted state, or domain.ErrNotFound when no
	// session has been saved.
	Load(ctx context.Context) (*domain.SessionState, error)

	// Clear removes any persisted state. Clearing an empty store is
	// not an error.
	Clear(ctx context.Context) error
}
