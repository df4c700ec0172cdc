package oauth

import (
	"context"

	"github.com/google/uuid"

	"github.com/AINative-studio/oauth2native/internal/logger"
)

// ClientCredentialsGrant exchanges a client_id/client_secret pair for tokens
// directly, with no user agent or redirect step (RFC 6749 §4.4). The Basic
// authentication header is computed once at construction time rather than on
// every Authorize call.
type ClientCredentialsGrant struct {
	client      *PublicClient
	authzHeader string
}

func newClientCredentialsGrant(client *PublicClient, charset, clientSecret string) (*ClientCredentialsGrant, error) {
	header, err := basicAuthHeader(charset, client.ClientID(), clientSecret)
	if err != nil {
		return nil, err
	}
	return &ClientCredentialsGrant{client: client, authzHeader: header}, nil
}

// Authorize sends the client_credentials grant request. client_id and
// client_secret are carried in the Authorization header, not the body, per
// RFC 6749 §2.3.1.
func (g *ClientCredentialsGrant) Authorize(ctx context.Context, doer HTTPDoer, scopes ...string) (*TokenResponse, error) {
	requestID := uuid.NewString()
	log := logger.WithContext(logger.WithRequestID(ctx, requestID))

	params := Params{}.add("grant_type", "client_credentials")
	if len(scopes) > 0 {
		params = params.add("scope", joinScopes(scopes))
	}

	req, cancel, err := g.client.buildTokenRequest(ctx, params)
	if err != nil {
		return nil, err
	}
	defer cancel()
	req.Header.Set("Authorization", g.authzHeader)

	log.Debug("oauth: sending client_credentials grant request")
	resp, err := doTokenRequest(doer, req)
	if err != nil {
		log.Errorf("oauth: client_credentials grant failed: %v", err)
		return nil, err
	}
	log.Infof("oauth: client_credentials grant completed with status %d", resp.StatusCode)
	return resp, nil
}

// AuthorizeAsync runs Authorize on a worker and returns a channel that
// receives exactly one AsyncResult, mirroring
// AuthorizationCodeGrant.AuthorizeAsync and RefreshGrant.RefreshAsync.
func (g *ClientCredentialsGrant) AuthorizeAsync(ctx context.Context, doer HTTPDoer, scopes ...string) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)
	defaultWorkerPool.submit(func() {
		resp, err := g.Authorize(ctx, doer, scopes...)
		out <- AsyncResult{Response: resp, Err: err}
		close(out)
	})
	return out
}
