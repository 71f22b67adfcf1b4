package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/thorsten-l/l9g-accountinfo/internal/crypto/domain"
)

func newTestSealer(t *testing.T) *SealerService {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	cipher, err := NewAESGCM(key)
	require.NoError(t, err)
	return NewSealer(cipher)
}

func TestSealerService_SealOpen(t *testing.T) {
	sealer := newTestSealer(t)

	t.Run("round trip", func(t *testing.T) {
		plaintext := []byte("signature envelope payload")
		aad := []byte("record-id")

		sealed, err := sealer.Seal(plaintext, aad)
		require.NoError(t, err)
		assert.Len(t, sealed, NonceSize+len(plaintext)+TagSize)

		opened, err := sealer.Open(sealed, aad)
		require.NoError(t, err)
		assert.Equal(t, plaintext, opened)
	})

	t.Run("distinct nonces per seal", func(t *testing.T) {
		plaintext := []byte("same input")

		a, err := sealer.Seal(plaintext, nil)
		require.NoError(t, err)
		b, err := sealer.Seal(plaintext, nil)
		require.NoError(t, err)

		assert.NotEqual(t, a[:NonceSize], b[:NonceSize])
		assert.NotEqual(t, a, b)
	})

	t.Run("tampered ciphertext fails", func(t *testing.T) {
		sealed, err := sealer.Seal([]byte("payload"), nil)
		require.NoError(t, err)

		sealed[NonceSize] ^= 0x01

		opened, err := sealer.Open(sealed, nil)
		assert.Nil(t, opened)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("wrong aad fails", func(t *testing.T) {
		sealed, err := sealer.Seal([]byte("payload"), []byte("record-a"))
		require.NoError(t, err)

		opened, err := sealer.Open(sealed, []byte("record-b"))
		assert.Nil(t, opened)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("too short payload rejected", func(t *testing.T) {
		opened, err := sealer.Open(make([]byte, NonceSize+TagSize-1), nil)
		assert.Nil(t, opened)
		assert.ErrorIs(t, err, cryptoDomain.ErrCiphertextTooShort)
	})

	t.Run("empty plaintext round trip", func(t *testing.T) {
		sealed, err := sealer.Seal([]byte{}, nil)
		require.NoError(t, err)

		opened, err := sealer.Open(sealed, nil)
		require.NoError(t, err)
		assert.Empty(t, opened)
	})
}

func TestSealerService_ChaCha20Compatibility(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cipher, err := NewChaCha20Poly1305(key)
	require.NoError(t, err)
	sealer := NewSealer(cipher)

	plaintext := []byte("payload")
	sealed, err := sealer.Seal(plaintext, nil)
	require.NoError(t, err)
	assert.Len(t, sealed, NonceSize+len(plaintext)+TagSize)

	opened, err := sealer.Open(sealed, nil)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}
