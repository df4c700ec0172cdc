package oauth

import (
	"encoding/base64"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// basicAuthHeader derives the HTTP Basic header value from client_id and
// client_secret (RFC 6749 §2.3.1), encoded in the caller-supplied charset
// before base64. Every intermediate buffer holding secret material is zeroed
// before the function returns.
func basicAuthHeader(charset, clientID, clientSecret string) (string, error) {
	enc, err := lookupCharset(charset)
	if err != nil {
		return "", err
	}

	userPass := []byte(clientID + ":" + clientSecret)
	defer scrub(userPass)

	encoded, err := enc.NewEncoder().Bytes(userPass)
	if err != nil {
		return "", fmt.Errorf("oauth: encoding credentials as %s: %w", charset, err)
	}
	defer scrub(encoded)

	b64 := make([]byte, base64.StdEncoding.EncodedLen(len(encoded)))
	base64.StdEncoding.Encode(b64, encoded)
	defer scrub(b64)

	return "Basic " + string(b64), nil
}

// lookupCharset resolves the small set of charsets a native OAuth client
// plausibly needs for legacy token endpoints; UTF-8 covers the common case.
func lookupCharset(name string) (encoding.Encoding, error) {
	switch name {
	case "", "UTF-8", "utf-8":
		return unicode.UTF8, nil
	case "ISO-8859-1", "iso-8859-1", "Latin-1", "latin-1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("oauth: unsupported charset %q", name)
	}
}

// scrub overwrites b with zeros; it does not prevent the Go runtime from
// having copied b's contents elsewhere (e.g. during a slice grow), but it
// removes the known-live copy per the spec's secret-handling requirement.
func scrub(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
