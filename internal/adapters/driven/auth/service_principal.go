package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/microsoft"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
	"github.com/custodia-labs/fabricctl/internal/core/ports/driven"
)

// Ensure ServicePrincipalSource implements the port interfaces.
var (
	_ driven.TokenSource    = (*ServicePrincipalSource)(nil)
	_ driven.StatePersister = (*ServicePrincipalSource)(nil)
)

// ServicePrincipalSource performs the OAuth client-credential exchange
// for a non-interactive application identity. The config is immutable
// once supplied at login time and is owned by this source for the
// lifetime of the process.
type ServicePrincipalSource struct {
	config     domain.ServicePrincipalConfig
	tokenURL   string
	httpClient *http.Client
}

// SPNOption configures a ServicePrincipalSource.
type SPNOption func(*ServicePrincipalSource)

// WithTokenURL overrides the identity endpoint. Used by tests and
// sovereign clouds.
func WithTokenURL(url string) SPNOption {
	return func(s *ServicePrincipalSource) { s.tokenURL = url }
}

// WithHTTPClient overrides the HTTP client used for the exchange.
func WithHTTPClient(client *http.Client) SPNOption {
	return func(s *ServicePrincipalSource) { s.httpClient = client }
}

// NewServicePrincipalSource creates a source for the given application
// identity. The identity endpoint defaults to the Microsoft Entra v2
// token endpoint for the configured tenant.
func NewServicePrincipalSource(config domain.ServicePrincipalConfig, opts ...SPNOption) *ServicePrincipalSource {
	s := &ServicePrincipalSource{
		config:   config,
		tokenURL: microsoft.AzureADEndpoint(config.TenantID).TokenURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Acquire exchanges the client id/secret for a bearer token scoped to
// the given audience. A 4xx from the identity endpoint maps to
// InvalidCredentials, anything keeping the exchange from completing
// maps to NetworkFailure.
func (s *ServicePrincipalSource) Acquire(ctx context.Context, audience domain.Audience) (*domain.Credential, error) {
	conf := clientcredentials.Config{
		ClientID:     s.config.ClientID,
		ClientSecret: s.config.ClientSecret,
		TokenURL:     s.tokenURL,
		Scopes:       []string{audience.Scope()},
	}

	if s.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	}

	token, err := conf.Token(ctx)
	if err != nil {
		return nil, wrapExchangeError(err)
	}
	if token.AccessToken == "" {
		return nil, domain.NewAuthError(domain.AuthInvalidCredentials,
			errors.New("token response contained no access token"))
	}

	return &domain.Credential{
		Kind:      domain.KindServicePrincipal,
		Token:     token.AccessToken,
		ExpiresAt: token.Expiry,
	}, nil
}

// Kind identifies the source variant.
func (s *ServicePrincipalSource) Kind() domain.CredentialKind {
	return domain.KindServicePrincipal
}

// PersistInto records the config so the session survives across
// invocations. The persisted file is secret-grade.
func (s *ServicePrincipalSource) PersistInto(state *domain.SessionState) {
	config := s.config
	state.ServicePrincipal = &config
}

// wrapExchangeError classifies a failed token exchange. The identity
// endpoint answers bad credentials with a 4xx error document; anything
// else means the exchange never completed.
func wrapExchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if code := retrieveErr.Response.StatusCode; code >= 400 && code < 500 {
			return domain.NewAuthError(domain.AuthInvalidCredentials,
				fmt.Errorf("identity endpoint returned %d: %s", code, retrieveErr.ErrorCode))
		}
		return domain.NewAuthError(domain.AuthNetworkFailure,
			fmt.Errorf("identity endpoint returned %d", retrieveErr.Response.StatusCode))
	}
	return domain.NewAuthError(domain.AuthNetworkFailure, err)
}
