package domain

import (
	"github.com/thorsten-l/l9g-accountinfo/internal/errors"
)

// Cryptographic operation error definitions.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	// All keys must be exactly 32 bytes (256 bits).
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates an authenticated decryption failed.
	// The authentication tag did not verify: the ciphertext was tampered with
	// or a wrong key was used. Non-retryable; no partial plaintext is ever
	// returned.
	ErrDecryptionFailed = errors.Wrap(errors.ErrIntegrity, "decryption failed")

	// ErrCiphertextTooShort indicates a sealed payload is shorter than
	// nonce plus authentication tag and cannot possibly be valid.
	ErrCiphertextTooShort = errors.Wrap(errors.ErrIntegrity, "ciphertext too short")
)
