package domain

import (
	"strings"
	"time"
)

// CredentialKind identifies which authentication source produced a credential.
type CredentialKind string

const (
	// KindManual is a token supplied directly through the environment.
	// Manual tokens are used as-is and never refreshed.
	KindManual CredentialKind = "manual"

	// KindServicePrincipal is a token obtained via the OAuth
	// client-credential flow using an application identity.
	KindServicePrincipal CredentialKind = "service-principal"

	// KindInteractive is a token obtained silently from an ambient
	// Azure CLI session.
	KindInteractive CredentialKind = "interactive"
)

// Audience is the API a token is scoped to. Fabric resource operations
// and Azure capacity management live on different hosts and require
// tokens with different scopes.
type Audience string

const (
	// AudienceFabric covers the Fabric REST API (workspaces, lakehouses,
	// warehouses, environments, git).
	AudienceFabric Audience = "https://api.fabric.microsoft.com"

	// AudienceManagement covers the Azure Resource Manager API
	// (capacity suspend/resume).
	AudienceManagement Audience = "https://management.azure.com"
)

// Scope returns the OAuth scope requesting all statically consented
// permissions for this audience.
func (a Audience) Scope() string {
	return string(a) + "/.default"
}

// Credential is an acquired bearer token plus what is known about it.
type Credential struct {
	// Kind records which source produced the token.
	Kind CredentialKind `json:"kind"`

	// Token is the opaque bearer string sent in the Authorization header.
	Token string `json:"token"`

	// ExpiresAt is when the token stops being valid. Zero means the
	// expiry is unknown (manual tokens); such credentials are used
	// until the caller replaces them.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// HasKnownExpiry reports whether the credential carries a concrete
// expiry that can drive automatic refresh.
func (c *Credential) HasKnownExpiry() bool {
	return !c.ExpiresAt.IsZero()
}

// ServicePrincipalConfig holds the application identity used for the
// client-credential flow. Immutable once supplied at login time.
type ServicePrincipalConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	TenantID     string `json:"tenant_id"`
}

// Validate checks that all three fields are present.
func (c ServicePrincipalConfig) Validate() error {
	if strings.TrimSpace(c.ClientID) == "" ||
		strings.TrimSpace(c.ClientSecret) == "" ||
		strings.TrimSpace(c.TenantID) == "" {
		return ErrInvalidInput
	}
	return nil
}

// SessionState is the durable form of an authenticated session: which
// source is active, the service principal config when that source is
// the SPN flow, and the tokens acquired so far. When persisted it is
// secret-grade data and must be written with restrictive permissions.
type SessionState struct {
	Kind             CredentialKind           `json:"kind"`
	ServicePrincipal *ServicePrincipalConfig  `json:"service_principal,omitempty"`
	Credentials      map[Audience]*Credential `json:"credentials,omitempty"`
}
