package oauth

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/AINative-studio/oauth2native/internal/logger"
)

// BrowserLauncher is the external user agent collaborator: given the
// assembled authorization URI, it opens it for the resource owner. It is an
// opaque callback — the core never inspects how, or whether, it succeeds
// beyond logging the attempt; §7 treats the launcher as fire-and-forget.
type BrowserLauncher func(ctx context.Context, authorizationURI string) error

// AsyncResult is the outcome delivered on the channel returned by
// AuthorizeAsync: either a TokenResponse or an error, never both.
type AsyncResult struct {
	Response *TokenResponse
	Err      error
}

// AuthorizationCodeGrant orchestrates the native-app Authorization Code Grant
// with PKCE (RFC 7636) over loopback redirection (RFC 8252 §7.3): it starts a
// RedirectListener, assembles the authorization URI, dispatches the browser
// callback on a worker so the listener can block on accept, waits for the
// code, and exchanges it for tokens.
//
// A grant is configured before Authorize and is not safe for concurrent
// Authorize calls.
type AuthorizationCodeGrant struct {
	client                *PublicClient
	authorizationEndpoint string
	pkce                  PKCEPair

	mu              sync.Mutex
	redirectPath    string
	redirectPorts   []int
	successResponse Response
	errorResponse   Response
}

func newAuthorizationCodeGrant(client *PublicClient, authorizationEndpoint string, pkce PKCEPair) *AuthorizationCodeGrant {
	path, err := randomToken(16)
	if err != nil {
		// randomToken only fails if the platform CSPRNG is gone, which the
		// rest of this package treats as fatal too; fall back to a fixed
		// path rather than panicking mid-construction.
		path = "callback"
	}

	return &AuthorizationCodeGrant{
		client:                client,
		authorizationEndpoint: authorizationEndpoint,
		pkce:                  pkce,
		redirectPath:          "/" + path,
		redirectPorts:         []int{0},
		successResponse:       defaultSuccessResponse(),
		errorResponse:         defaultErrorResponse(),
	}
}

// PKCE returns the grant's PKCE pair.
func (g *AuthorizationCodeGrant) PKCE() PKCEPair { return g.pkce }

// SetRedirectPath overrides the default random redirect path. path must
// begin with "/".
func (g *AuthorizationCodeGrant) SetRedirectPath(path string) error {
	if !strings.HasPrefix(path, "/") {
		return ErrInvalidRedirectPath
	}
	g.mu.Lock()
	g.redirectPath = path
	g.mu.Unlock()
	return nil
}

// SetRedirectPorts overrides the default [0] (system-assigned) port list.
func (g *AuthorizationCodeGrant) SetRedirectPorts(ports ...int) {
	g.mu.Lock()
	g.redirectPorts = ports
	g.mu.Unlock()
}

// SetSuccessResponse overrides the listener's success reply.
func (g *AuthorizationCodeGrant) SetSuccessResponse(r Response) error {
	if r == nil {
		return ErrNilResponse
	}
	g.mu.Lock()
	g.successResponse = r
	g.mu.Unlock()
	return nil
}

// SetErrorResponse overrides the listener's error reply.
func (g *AuthorizationCodeGrant) SetErrorResponse(r Response) error {
	if r == nil {
		return ErrNilResponse
	}
	g.mu.Lock()
	g.errorResponse = r
	g.mu.Unlock()
	return nil
}

// Authorize drives the full flow and returns the token endpoint's response
// verbatim. The listener is released on every exit path.
func (g *AuthorizationCodeGrant) Authorize(ctx context.Context, doer HTTPDoer, launch BrowserLauncher, scopes ...string) (*TokenResponse, error) {
	g.mu.Lock()
	path := g.redirectPath
	ports := g.redirectPorts
	success := g.successResponse
	errResp := g.errorResponse
	g.mu.Unlock()

	requestID := uuid.NewString()
	log := logger.WithContext(logger.WithRequestID(ctx, requestID))

	listener, err := Listen(path, ports...)
	if err != nil {
		log.Errorf("oauth: failed to start redirect listener: %v", err)
		return nil, err
	}
	if err := listener.SetSuccessResponse(success); err != nil {
		listener.Close()
		return nil, err
	}
	if err := listener.SetErrorResponse(errResp); err != nil {
		listener.Close()
		return nil, err
	}
	defer listener.Close()

	authURI := g.buildAuthURI(listener.RedirectURI(), listener.CSRFToken(), scopes)

	log.Infof("oauth: dispatching browser callback for %s", g.authorizationEndpoint)
	defaultWorkerPool.submit(func() {
		if err := launch(ctx, authURI); err != nil {
			log.Warnf("oauth: browser launcher returned an error: %v", err)
		}
	})

	code, err := listener.Receive(ctx)
	if err != nil {
		log.Errorf("oauth: redirect listener failed: %v", err)
		return nil, err
	}
	log.Debug("oauth: exchanging authorization code for tokens")

	params := Params{}.
		add("grant_type", "authorization_code").
		add("client_id", g.client.ClientID()).
		add("code_verifier", g.pkce.Verifier()).
		add("code", code).
		add("redirect_uri", listener.RedirectURI())

	req, cancel, err := g.client.buildTokenRequest(ctx, params)
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := doTokenRequest(doer, req)
	if err != nil {
		log.Errorf("oauth: token exchange failed: %v", err)
		return nil, err
	}

	log.Infof("oauth: token exchange completed with status %d", resp.StatusCode)
	return resp, nil
}

// AuthorizeAsync runs Authorize on a worker and returns a channel that
// receives exactly one AsyncResult.
func (g *AuthorizationCodeGrant) AuthorizeAsync(ctx context.Context, doer HTTPDoer, launch BrowserLauncher, scopes ...string) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)
	defaultWorkerPool.submit(func() {
		resp, err := g.Authorize(ctx, doer, launch, scopes...)
		out <- AsyncResult{Response: resp, Err: err}
		close(out)
	})
	return out
}

// buildAuthURI assembles the authorization URI per RFC 6749 §3.1: the
// endpoint's existing raw query is preserved and the standard parameters are
// appended after it.
func (g *AuthorizationCodeGrant) buildAuthURI(redirectURI, csrfToken string, scopes []string) string {
	u, err := url.Parse(g.authorizationEndpoint)
	if err != nil {
		// The endpoint is not validated when the grant is built; an
		// unparseable endpoint yields a URI consisting of the query alone.
		u = &url.URL{}
	}

	params := Params{}.
		add("response_type", "code").
		add("client_id", g.client.ClientID()).
		add("state", csrfToken).
		add("code_challenge", g.pkce.Challenge()).
		add("code_challenge_method", g.pkce.Method()).
		add("redirect_uri", redirectURI)

	if len(scopes) > 0 {
		params = params.add("scope", strings.Join(scopes, " "))
	}

	newQuery := buildQuery(params)
	if u.RawQuery != "" {
		u.RawQuery = u.RawQuery + "&" + newQuery
	} else {
		u.RawQuery = newQuery
	}

	return u.String()
}
