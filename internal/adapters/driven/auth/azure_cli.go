package auth

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
	"github.com/custodia-labs/fabricctl/internal/core/ports/driven"
)

// Ensure AzureCLISource implements the port interface.
var _ driven.TokenSource = (*AzureCLISource)(nil)

// cliCredential is the slice of azcore.TokenCredential this source
// needs. Tests substitute a fake; production uses
// azidentity.AzureCLICredential.
type cliCredential interface {
	GetToken(ctx context.Context, options policy.TokenRequestOptions) (azcore.AccessToken, error)
}

// AzureCLISource obtains tokens silently from an already-authenticated
// `az login` session. It holds no secret material of its own; the Azure
// CLI acts as the identity broker.
type AzureCLISource struct {
	cred cliCredential
}

// NewAzureCLISource creates the interactive source. tenantID may be
// empty, in which case the CLI's default tenant is used.
func NewAzureCLISource(tenantID string) (*AzureCLISource, error) {
	cred, err := azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{
		TenantID: tenantID,
	})
	if err != nil {
		return nil, domain.NewAuthError(domain.AuthNoInteractiveSession, err)
	}
	return &AzureCLISource{cred: cred}, nil
}

// newAzureCLISourceWithCredential is the test seam.
func newAzureCLISourceWithCredential(cred cliCredential) *AzureCLISource {
	return &AzureCLISource{cred: cred}
}

// Acquire asks the Azure CLI for a token scoped to the given audience.
// Any failure means no usable interactive session is available.
func (s *AzureCLISource) Acquire(ctx context.Context, audience domain.Audience) (*domain.Credential, error) {
	token, err := s.cred.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{audience.Scope()},
	})
	if err != nil {
		return nil, domain.NewAuthError(domain.AuthNoInteractiveSession, err)
	}

	return &domain.Credential{
		Kind:      domain.KindInteractive,
		Token:     token.Token,
		ExpiresAt: token.ExpiresOn,
	}, nil
}

// Kind identifies the source variant.
func (s *AzureCLISource) Kind() domain.CredentialKind {
	return domain.KindInteractive
}
