package oauth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyResponseWriteTo(t *testing.T) {
	var buf strings.Builder
	err := EmptyResponse(404).writeTo(&buf)
	assert.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 404 Not Found\nConnection: Close\n\n", buf.String())
}

func TestHTMLResponseWriteTo(t *testing.T) {
	var buf strings.Builder
	err := HTMLResponse(200, "hello").writeTo(&buf)
	assert.NoError(t, err)
	assert.Equal(t,
		"HTTP/1.1 200 OK\nConnection: Close\nContent-Type: text/html; charset=UTF-8\nContent-Length: 5\n\nhello\n",
		buf.String())
}

func TestHTMLResponseContentLengthIsUTF8Bytes(t *testing.T) {
	var buf strings.Builder
	body := "café" // "café", 5 bytes in UTF-8, 4 runes
	err := HTMLResponse(200, body).writeTo(&buf)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Content-Length: 5\n")
}

func TestRedirectResponseWriteTo(t *testing.T) {
	var buf strings.Builder
	err := RedirectResponse("https://example.com/done").writeTo(&buf)
	assert.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 303 See Other\nConnection: Close\nLocation: https://example.com/done\n\n", buf.String())
}

func TestDefaultResponses(t *testing.T) {
	var buf strings.Builder
	assert.NoError(t, defaultSuccessResponse().writeTo(&buf))
	assert.Contains(t, buf.String(), "200 OK")

	buf.Reset()
	assert.NoError(t, defaultErrorResponse().writeTo(&buf))
	assert.Contains(t, buf.String(), "200 OK")
}
