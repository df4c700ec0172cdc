// Package oauth2native is the public entry point for native-app OAuth 2.0
// clients: a fluent builder over internal/oauth's PublicClient and its
// three grants, and a thin re-export of the types callers need to hold
// (TokenResponse, the Response variants, errors) without reaching into
// internal packages.
package oauth2native

import (
	"time"

	"github.com/AINative-studio/oauth2native/internal/oauth"
)

// Re-exported types so callers never need to import internal/oauth directly.
type (
	TokenResponse            = oauth.TokenResponse
	HTTPDoer                 = oauth.HTTPDoer
	BrowserLauncher          = oauth.BrowserLauncher
	AsyncResult              = oauth.AsyncResult
	Response                 = oauth.Response
	PKCEPair                 = oauth.PKCEPair
	AuthorizationCodeGrant   = oauth.AuthorizationCodeGrant
	ClientCredentialsGrant   = oauth.ClientCredentialsGrant
	RefreshGrant             = oauth.RefreshGrant
	ProtocolError            = oauth.ProtocolError
	AuthorizationDeniedError = oauth.AuthorizationDeniedError
)

var (
	EmptyResponse    = oauth.EmptyResponse
	HTMLResponse     = oauth.HTMLResponse
	RedirectResponse = oauth.RedirectResponse
)

// Builder fluently assembles a PublicClient, mirroring the chain
// client(id).with_token_endpoint(uri)... described for this library's
// native callers.
type Builder struct {
	clientID       string
	tokenEndpoint  string
	requestTimeout time.Duration
}

// Client starts a Builder for the given client_id.
func Client(clientID string) *Builder {
	return &Builder{clientID: clientID}
}

// WithTokenEndpoint sets the token endpoint URI.
func (b *Builder) WithTokenEndpoint(uri string) *Builder {
	b.tokenEndpoint = uri
	return b
}

// WithRequestTimeout sets the per-request timeout applied to token
// exchanges; if omitted, oauth.DefaultRequestTimeout applies.
func (b *Builder) WithRequestTimeout(d time.Duration) *Builder {
	b.requestTimeout = d
	return b
}

// Build constructs the immutable PublicClient.
func (b *Builder) Build() (*oauth.PublicClient, error) {
	c, err := oauth.NewPublicClient(b.clientID, b.tokenEndpoint)
	if err != nil {
		return nil, err
	}
	if b.requestTimeout > 0 {
		c = c.WithRequestTimeout(b.requestTimeout)
	}
	return c, nil
}

// AuthorizationCodeGrant builds the client, then constructs a fresh PKCE
// pair and grant bound to it and the given authorization endpoint.
func (b *Builder) AuthorizationCodeGrant(authorizationEndpoint string) (*oauth.AuthorizationCodeGrant, error) {
	c, err := b.Build()
	if err != nil {
		return nil, err
	}
	return c.AuthorizationCodeGrant(authorizationEndpoint)
}

// ClientCredentialsGrant builds the client, then precomputes the Basic
// auth header for the given charset and secret.
func (b *Builder) ClientCredentialsGrant(charset, clientSecret string) (*oauth.ClientCredentialsGrant, error) {
	c, err := b.Build()
	if err != nil {
		return nil, err
	}
	return c.ClientCredentialsGrant(charset, clientSecret)
}

// RefreshGrant builds the client, then returns a reusable RefreshGrant bound
// to refreshToken.
func (b *Builder) RefreshGrant(refreshToken string, scopes ...string) (*oauth.RefreshGrant, error) {
	c, err := b.Build()
	if err != nil {
		return nil, err
	}
	return c.RefreshGrant(refreshToken, scopes...), nil
}
