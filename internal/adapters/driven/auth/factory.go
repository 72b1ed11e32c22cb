package auth

import (
	"fmt"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
	"github.com/custodia-labs/fabricctl/internal/core/ports/driven"
)

// Restore reconstructs the token source recorded in persisted session
// state. Only sources activated by a login can be restored; the manual
// environment token needs no state.
func Restore(state *domain.SessionState) (driven.TokenSource, error) {
	switch state.Kind {
	case domain.KindServicePrincipal:
		if state.ServicePrincipal == nil {
			return nil, fmt.Errorf("%w: session is missing service principal config", domain.ErrInvalidInput)
		}
		return NewServicePrincipalSource(*state.ServicePrincipal), nil
	case domain.KindInteractive:
		return NewAzureCLISource("")
	default:
		return nil, fmt.Errorf("%w: cannot restore session kind %q", domain.ErrInvalidInput, state.Kind)
	}
}
