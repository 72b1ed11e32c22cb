// Package auth implements the driven.TokenSource port for the three
// supported authentication flows: manual environment token, service
// principal client-credential exchange, and the ambient Azure CLI
// session.
package auth

import (
	"context"
	"os"
	"strings"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
	"github.com/custodia-labs/fabricctl/internal/core/ports/driven"
)

// Environment variables backing the manual token source. The legacy
// name is what the Power BI tooling historically used; it is checked
// second.
const (
	EnvManualToken       = "FABRIC_ACCESS_TOKEN"
	EnvManualTokenLegacy = "POWER_BI_ACCESS_TOKEN"
)

// Ensure ManualTokenSource implements the override interface.
var _ driven.OverrideSource = (*ManualTokenSource)(nil)

// ManualTokenSource reads a caller-supplied bearer token from the
// environment. When its backing value is present and non-empty it takes
// absolute precedence over any source activated by login. No network
// call is ever made and the token is never refreshed; the caller is
// expected to replace the environment value when it goes stale.
type ManualTokenSource struct{}

// NewManualTokenSource creates the environment-token source.
func NewManualTokenSource() *ManualTokenSource {
	return &ManualTokenSource{}
}

// Present reports whether a non-empty token is set in the environment.
func (s *ManualTokenSource) Present() bool {
	return s.value() != ""
}

// Acquire returns the environment token as a credential with unknown
// expiry. The audience is ignored: a manually supplied token is used
// verbatim for every request.
func (s *ManualTokenSource) Acquire(_ context.Context, _ domain.Audience) (*domain.Credential, error) {
	token := s.value()
	if token == "" {
		return nil, domain.NewAuthError(domain.AuthManualTokenInvalid, nil)
	}
	return &domain.Credential{
		Kind:  domain.KindManual,
		Token: token,
	}, nil
}

// Kind identifies the source variant.
func (s *ManualTokenSource) Kind() domain.CredentialKind {
	return domain.KindManual
}

func (s *ManualTokenSource) value() string {
	if v := strings.TrimSpace(os.Getenv(EnvManualToken)); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(EnvManualTokenLegacy))
}
