package domain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// xorKeeper is a trivially reversible KMSKeeper for tests.
type xorKeeper struct{}

func (xorKeeper) Encrypt(_ context.Context, plaintext []byte) ([]byte, error) {
	out := make([]byte, len(plaintext))
	for i, b := range plaintext {
		out[i] = b ^ 0xAA
	}
	return out, nil
}

func (k xorKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	return k.Encrypt(ctx, ciphertext)
}

func (xorKeeper) Close() error { return nil }

func TestLoadOrCreateMasterKey(t *testing.T) {
	ctx := context.Background()

	t.Run("generates key on first run", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "secret.bin")

		mk, err := LoadOrCreateMasterKey(ctx, path, nil)
		require.NoError(t, err)
		assert.Len(t, mk.Key, KeySize)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("loads existing key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "secret.bin")

		first, err := LoadOrCreateMasterKey(ctx, path, nil)
		require.NoError(t, err)

		second, err := LoadOrCreateMasterKey(ctx, path, nil)
		require.NoError(t, err)
		assert.Equal(t, first.Key, second.Key)
	})

	t.Run("rejects truncated key file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "secret.bin")
		require.NoError(t, os.WriteFile(path, []byte("short"), 0o600))

		mk, err := LoadOrCreateMasterKey(ctx, path, nil)
		assert.Nil(t, mk)
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})

	t.Run("wraps and unwraps key with keeper", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "secret.bin")
		keeper := xorKeeper{}

		first, err := LoadOrCreateMasterKey(ctx, path, keeper)
		require.NoError(t, err)

		// The on-disk bytes must not be the raw key.
		stored, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotEqual(t, first.Key, stored)

		second, err := LoadOrCreateMasterKey(ctx, path, keeper)
		require.NoError(t, err)
		assert.Equal(t, first.Key, second.Key)
	})
}

func TestMasterKey_Close(t *testing.T) {
	mk := &MasterKey{Key: []byte{1, 2, 3, 4}}
	mk.Close()
	assert.Nil(t, mk.Key)
}
