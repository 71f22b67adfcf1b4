package service

import (
	"crypto/rsa"
	"testing"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyGenerator_Generate(t *testing.T) {
	generator := NewKeyGenerator()

	pair, err := generator.Generate("pad-uuid-1")
	require.NoError(t, err)

	t.Run("private JWK carries both halves", func(t *testing.T) {
		var jwk jose.JSONWebKey
		require.NoError(t, jwk.UnmarshalJSON(pair.PrivateJWK))

		assert.Equal(t, "pad-uuid-1", jwk.KeyID)
		assert.Equal(t, "RS256", jwk.Algorithm)
		assert.Equal(t, "sig", jwk.Use)

		key, ok := jwk.Key.(*rsa.PrivateKey)
		require.True(t, ok)
		assert.Equal(t, 2048, key.N.BitLen())
	})

	t.Run("public JWK matches private key", func(t *testing.T) {
		var public jose.JSONWebKey
		require.NoError(t, public.UnmarshalJSON(pair.PublicJWK))

		assert.Equal(t, "pad-uuid-1", public.KeyID)
		assert.Equal(t, "RS256", public.Algorithm)
		assert.Equal(t, "sig", public.Use)

		var private jose.JSONWebKey
		require.NoError(t, private.UnmarshalJSON(pair.PrivateJWK))

		publicKey, ok := public.Key.(*rsa.PublicKey)
		require.True(t, ok)
		assert.True(t, publicKey.Equal(&private.Key.(*rsa.PrivateKey).PublicKey))
	})

	t.Run("keys are distinct per call", func(t *testing.T) {
		other, err := generator.Generate("pad-uuid-2")
		require.NoError(t, err)
		assert.NotEqual(t, pair.PrivateJWK, other.PrivateJWK)
	})
}
