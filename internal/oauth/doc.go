// Package oauth implements the native-app OAuth 2.0 client core: the
// loopback redirect listener, the three grant orchestrators (authorization
// code with PKCE, client credentials, refresh token), and the shared token
// endpoint request builder they all sit on top of.
//
// Callers interact with PublicClient and the grant types it constructs; the
// listener, query encoding, and response writers are internal plumbing.
package oauth
