// Package domain defines core cryptographic types: the process master key
// and the supported AEAD algorithms.
package domain

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
)

// KeySize is the required master key length in bytes (AES-256).
const KeySize = 32

// MasterKey is the single 256-bit secret protecting everything at rest.
// It is loaded exactly once per process lifetime; after initialization the
// key material is read-only.
type MasterKey struct {
	Key []byte
}

// Close clears the key material from memory.
func (m *MasterKey) Close() {
	Zero(m.Key)
	m.Key = nil
}

// KMSKeeper abstracts a gocloud.dev secrets keeper used to wrap the on-disk
// key material with an external KMS. When nil, the key file holds the raw
// key bytes.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// LoadOrCreateMasterKey reads the master key from path, generating a fresh
// cryptographically random key on first run. The key file is written with
// owner-only permissions (0600) inside an owner-only directory (0700).
//
// Any failure to read or create the key is returned to the caller, which
// must treat it as fatal: the process must not continue without the master
// key, and there is no plaintext fallback mode.
func LoadOrCreateMasterKey(ctx context.Context, path string, keeper KMSKeeper) (*MasterKey, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key := data
		if keeper != nil {
			key, err = keeper.Decrypt(ctx, data)
			if err != nil {
				return nil, fmt.Errorf("failed to unwrap master key %s: %w", path, err)
			}
		}
		if len(key) != KeySize {
			Zero(key)
			return nil, fmt.Errorf("%w: master key file %s holds %d bytes, want %d",
				ErrInvalidKeySize, path, len(key), KeySize)
		}
		return &MasterKey{Key: key}, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read master key %s: %w", path, err)
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}

	stored := key
	if keeper != nil {
		stored, err = keeper.Encrypt(ctx, key)
		if err != nil {
			Zero(key)
			return nil, fmt.Errorf("failed to wrap master key: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		Zero(key)
		return nil, fmt.Errorf("failed to create master key directory: %w", err)
	}
	if err := os.WriteFile(path, stored, 0o600); err != nil {
		Zero(key)
		return nil, fmt.Errorf("failed to write master key %s: %w", path, err)
	}

	return &MasterKey{Key: key}, nil
}
