package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
)

// fakeCLICredential implements cliCredential for testing.
type fakeCLICredential struct {
	token     azcore.AccessToken
	err       error
	gotScopes []string
}

func (f *fakeCLICredential) GetToken(_ context.Context, options policy.TokenRequestOptions) (azcore.AccessToken, error) {
	f.gotScopes = options.Scopes
	if f.err != nil {
		return azcore.AccessToken{}, f.err
	}
	return f.token, nil
}

func TestAzureCLISource_Acquire(t *testing.T) {
	expiresOn := time.Now().Add(time.Hour).Truncate(time.Second)
	cred := &fakeCLICredential{
		token: azcore.AccessToken{Token: "cli-token", ExpiresOn: expiresOn},
	}
	source := newAzureCLISourceWithCredential(cred)

	got, err := source.Acquire(context.Background(), domain.AudienceFabric)

	require.NoError(t, err)
	assert.Equal(t, "cli-token", got.Token)
	assert.Equal(t, domain.KindInteractive, got.Kind)
	assert.Equal(t, expiresOn, got.ExpiresAt)
	assert.Equal(t, []string{"https://api.fabric.microsoft.com/.default"}, cred.gotScopes)
}

func TestAzureCLISource_NoSession(t *testing.T) {
	cred := &fakeCLICredential{err: errors.New("az login required")}
	source := newAzureCLISourceWithCredential(cred)

	_, err := source.Acquire(context.Background(), domain.AudienceFabric)

	require.Error(t, err)
	assert.True(t, domain.IsNoInteractiveSession(err))
}

func TestAzureCLISource_Kind(t *testing.T) {
	source := newAzureCLISourceWithCredential(&fakeCLICredential{})
	assert.Equal(t, domain.KindInteractive, source.Kind())
}
