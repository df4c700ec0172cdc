package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPKCEPair(t *testing.T) {
	t.Run("verifier is 43 characters", func(t *testing.T) {
		pair, err := newPKCEPair()
		require.NoError(t, err)
		assert.Len(t, pair.Verifier(), 43)
	})

	t.Run("method is S256", func(t *testing.T) {
		pair, err := newPKCEPair()
		require.NoError(t, err)
		assert.Equal(t, "S256", pair.Method())
	})

	t.Run("challenge is derived from verifier", func(t *testing.T) {
		pair, err := newPKCEPair()
		require.NoError(t, err)
		assert.Equal(t, codeChallenge(pair.Verifier()), pair.Challenge())
	})

	t.Run("successive pairs differ", func(t *testing.T) {
		a, err := newPKCEPair()
		require.NoError(t, err)
		b, err := newPKCEPair()
		require.NoError(t, err)
		assert.NotEqual(t, a.Verifier(), b.Verifier())
		assert.NotEqual(t, a.Challenge(), b.Challenge())
	})
}

func TestCodeChallenge(t *testing.T) {
	t.Run("matches RFC 7636 appendix B worked example", func(t *testing.T) {
		const verifier = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
		const wantChallenge = "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"
		assert.Equal(t, wantChallenge, codeChallenge(verifier))
	})
}
