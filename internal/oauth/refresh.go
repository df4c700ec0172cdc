package oauth

import (
	"context"

	"github.com/google/uuid"

	"github.com/AINative-studio/oauth2native/internal/logger"
)

// RefreshGrant builds and sends a refresh_token grant request (RFC 6749
// §6). It carries no state beyond the inputs needed to build one request.
type RefreshGrant struct {
	client       *PublicClient
	refreshToken string
	scopes       []string
}

func newRefreshGrant(client *PublicClient, refreshToken string, scopes []string) *RefreshGrant {
	return &RefreshGrant{client: client, refreshToken: refreshToken, scopes: scopes}
}

// Refresh sends the refresh_token grant request and returns the token
// endpoint's response verbatim.
func (g *RefreshGrant) Refresh(ctx context.Context, doer HTTPDoer) (*TokenResponse, error) {
	requestID := uuid.NewString()
	log := logger.WithContext(logger.WithRequestID(ctx, requestID))

	params := Params{}.
		add("grant_type", "refresh_token").
		add("refresh_token", g.refreshToken).
		add("client_id", g.client.ClientID())

	if len(g.scopes) > 0 {
		params = params.add("scope", joinScopes(g.scopes))
	}

	req, cancel, err := g.client.buildTokenRequest(ctx, params)
	if err != nil {
		return nil, err
	}
	defer cancel()

	log.Debug("oauth: sending refresh_token grant request")
	resp, err := doTokenRequest(doer, req)
	if err != nil {
		log.Errorf("oauth: refresh_token grant failed: %v", err)
		return nil, err
	}
	log.Infof("oauth: refresh_token grant completed with status %d", resp.StatusCode)
	return resp, nil
}

// RefreshAsync runs Refresh on a worker and returns a channel that receives
// exactly one AsyncResult, mirroring AuthorizationCodeGrant.AuthorizeAsync.
func (g *RefreshGrant) RefreshAsync(ctx context.Context, doer HTTPDoer) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)
	defaultWorkerPool.submit(func() {
		resp, err := g.Refresh(ctx, doer)
		out <- AsyncResult{Response: resp, Err: err}
		close(out)
	})
	return out
}
