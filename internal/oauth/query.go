package oauth

import (
	"net/url"
	"strings"
)

// Param is one key/value pair of an application/x-www-form-urlencoded body.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered sequence of form parameters. Order is caller-defined;
// buildQuery emits them in the order given rather than sorting by key, so
// that request bodies are reproducible for logging and tests.
type Params []Param

// add appends a parameter and returns the extended slice, mirroring the
// append-and-reassign idiom used throughout this package's grant builders.
func (p Params) add(key, value string) Params {
	return append(p, Param{Key: key, Value: value})
}

// buildQuery renders params as an application/x-www-form-urlencoded string.
// A value segment is omitted (key-only) iff the value is empty.
func buildQuery(params Params) string {
	parts := make([]string, 0, len(params))
	for _, kv := range params {
		if kv.Value == "" {
			parts = append(parts, url.QueryEscape(kv.Key))
			continue
		}
		parts = append(parts, url.QueryEscape(kv.Key)+"="+url.QueryEscape(kv.Value))
	}
	return strings.Join(parts, "&")
}

// parseQuery decodes an application/x-www-form-urlencoded string into a map.
// A missing raw query (the empty string) yields an empty map. Segments
// without "=" decode to an empty-string value. Behavior on duplicate keys is
// last-wins, consistent with the spec leaving it unspecified.
func parseQuery(raw string) map[string]string {
	result := make(map[string]string)
	if raw == "" {
		return result
	}

	for _, segment := range strings.Split(raw, "&") {
		if segment == "" {
			continue
		}

		key := segment
		value := ""
		if idx := strings.IndexByte(segment, '='); idx >= 0 {
			key = segment[:idx]
			value = segment[idx+1:]
		}

		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			decodedKey = key
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			decodedValue = value
		}
		result[decodedKey] = decodedValue
	}

	return result
}

// joinScopes renders scopes as the single space-joined value used in the
// scope= form parameter.
func joinScopes(scopes []string) string {
	return strings.Join(scopes, " ")
}
