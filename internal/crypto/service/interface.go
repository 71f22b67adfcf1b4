// Package service provides the cryptographic services protecting data at
// rest: AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305), the sealed-payload
// framing used by the record store and blob store, and optional KMS
// wrapping of the master key file.
package service

import (
	"context"

	cryptoDomain "github.com/thorsten-l/l9g-accountinfo/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// Sealer frames AEAD output into a single self-contained payload
// (nonce || ciphertext || tag) and opens such payloads again. This is the
// storage format for every encrypted record column and blob file.
type Sealer interface {
	// Seal encrypts plaintext and returns nonce || ciphertext || tag.
	Seal(plaintext, aad []byte) ([]byte, error)

	// Open verifies and decrypts a sealed payload. A failed tag check
	// returns an error wrapping domain.ErrDecryptionFailed and never any
	// partial plaintext.
	Open(sealed, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KMSService opens gocloud.dev secrets keepers for master key wrapping.
type KMSService interface {
	// OpenKeeper opens a secrets.Keeper for the configured KMS provider.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
