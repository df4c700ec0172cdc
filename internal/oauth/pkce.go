package oauth

import (
	"crypto/sha256"
	"encoding/base64"
)

// pkceMethod is the only challenge method this client supports (RFC 7636 §4.3).
const pkceMethod = "S256"

// PKCEPair is an immutable Proof Key for Code Exchange pair (RFC 7636).
//
// The authorization server sees only Challenge at authorization time and
// Verifier at token exchange time; binding them cryptographically defeats
// interception of the authorization code in transit.
type PKCEPair struct {
	verifier  string
	challenge string
}

// Verifier returns the PKCE code verifier.
func (p PKCEPair) Verifier() string { return p.verifier }

// Challenge returns the S256 code challenge derived from the verifier.
func (p PKCEPair) Challenge() string { return p.challenge }

// Method returns the fixed challenge method, "S256".
func (p PKCEPair) Method() string { return pkceMethod }

// newPKCEPair generates a fresh 43-character verifier and its S256 challenge.
func newPKCEPair() (PKCEPair, error) {
	verifier, err := randomToken(43)
	if err != nil {
		return PKCEPair{}, err
	}
	return PKCEPair{
		verifier:  verifier,
		challenge: codeChallenge(verifier),
	}, nil
}

// codeChallenge computes base64url_no_pad(SHA-256(verifier)) over the
// verifier's US-ASCII bytes, per RFC 7636 §4.2.
func codeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
