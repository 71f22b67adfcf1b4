package service

import (
	cryptoDomain "github.com/thorsten-l/l9g-accountinfo/internal/crypto/domain"
)

const (
	// NonceSize is the AEAD nonce length in bytes.
	NonceSize = 12
	// TagSize is the AEAD authentication tag length in bytes.
	TagSize = 16
)

// SealerService frames AEAD output as nonce || ciphertext || tag so each
// encrypted value is a single self-contained byte string. Both supported
// ciphers use a 12-byte nonce and a 16-byte tag, so the framing is
// algorithm independent.
type SealerService struct {
	cipher AEAD
}

// NewSealer creates a Sealer backed by the given cipher.
func NewSealer(cipher AEAD) *SealerService {
	return &SealerService{cipher: cipher}
}

// Seal encrypts plaintext and prepends the nonce to the tagged ciphertext.
func (s *SealerService) Seal(plaintext, aad []byte) ([]byte, error) {
	ciphertext, nonce, err := s.cipher.Encrypt(plaintext, aad)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(nonce)+len(ciphertext))
	sealed = append(sealed, nonce...)
	sealed = append(sealed, ciphertext...)
	return sealed, nil
}

// Open splits a sealed payload into nonce and ciphertext and decrypts it.
// Payloads shorter than nonce plus tag are rejected before touching the
// cipher; a failed tag check surfaces as domain.ErrDecryptionFailed.
func (s *SealerService) Open(sealed, aad []byte) ([]byte, error) {
	if len(sealed) < NonceSize+TagSize {
		return nil, cryptoDomain.ErrCiphertextTooShort
	}

	nonce := sealed[:NonceSize]
	ciphertext := sealed[NonceSize:]
	return s.cipher.Decrypt(ciphertext, nonce, aad)
}
