package oauth2native_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AINative-studio/oauth2native/pkg/oauth2native"
)

func TestBuilderBuild(t *testing.T) {
	t.Run("builds a client with the given id and endpoint", func(t *testing.T) {
		c, err := oauth2native.Client("my-client").
			WithTokenEndpoint("https://example.com/token").
			Build()
		require.NoError(t, err)
		assert.Equal(t, "my-client", c.ClientID())
		assert.Equal(t, "https://example.com/token", c.TokenEndpoint())
	})

	t.Run("applies a custom request timeout", func(t *testing.T) {
		c, err := oauth2native.Client("my-client").
			WithTokenEndpoint("https://example.com/token").
			WithRequestTimeout(5 * time.Second).
			Build()
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, c.RequestTimeout())
	})

	t.Run("fails without a token endpoint", func(t *testing.T) {
		_, err := oauth2native.Client("my-client").Build()
		assert.Error(t, err)
	})
}

func TestBuilderAuthorizationCodeGrant(t *testing.T) {
	grant, err := oauth2native.Client("my-client").
		WithTokenEndpoint("https://example.com/token").
		AuthorizationCodeGrant("https://example.com/authorize")
	require.NoError(t, err)
	assert.NotEmpty(t, grant.PKCE().Verifier())
}

func TestBuilderClientCredentialsGrant(t *testing.T) {
	_, err := oauth2native.Client("Aladdin").
		WithTokenEndpoint("https://example.com/token").
		ClientCredentialsGrant("UTF-8", "open sesame")
	require.NoError(t, err)
}

func TestBuilderRefreshGrant(t *testing.T) {
	grant, err := oauth2native.Client("my-client").
		WithTokenEndpoint("https://example.com/token").
		RefreshGrant("r3fr3sh70k3n", "foo", "bar")
	require.NoError(t, err)
	require.NotNil(t, grant)
}
