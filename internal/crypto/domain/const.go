package domain

// Algorithm represents the AEAD algorithm used for encryption at rest.
type Algorithm string

const (
	// AESGCM is AES-256-GCM: 256-bit key, 12-byte nonce, 16-byte tag.
	// Default; hardware accelerated on most server CPUs.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305: same key/nonce/tag sizes, constant-time
	// in software, preferred on platforms without AES acceleration.
	ChaCha20 Algorithm = "chacha20-poly1305"
)
