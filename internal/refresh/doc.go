// Package refresh provides a background, refresh-ahead manager for OAuth
// 2.0 token sets obtained from internal/oauth.
//
// It monitors a token set's expiration and proactively issues a
// refresh_token grant before the access token expires, rather than waiting
// for the caller to discover a 401. Because internal/oauth never parses a
// token response's body, callers supply a ParseExpiryFunc that extracts the
// refresh token and expiry from the raw response.
//
// Example usage:
//
//	manager := refresh.NewManager(refresh.Config{
//	    Client:      client,
//	    Doer:        http.DefaultClient,
//	    ParseExpiry: parseMyTokenJSON,
//	    TokenStore:  storeTokens,
//	})
//	manager.Start(ctx, initialTokens)
//	defer manager.Stop()
package refresh
