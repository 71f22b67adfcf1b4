// Package service provides the RSA key pair generator for pads that cannot
// create their own keys.
package service

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"

	jose "github.com/go-jose/go-jose/v4"
)

// rsaKeySize is the modulus size for generated pad keys.
const rsaKeySize = 2048

// KeyPair is one generated pad key: the private half leaves the server
// exactly once, the public half is pinned on the pad record.
type KeyPair struct {
	// PrivateJWK is the full JWK carrying both key halves, including kid
	// and alg. It is handed to the pad and never persisted.
	PrivateJWK json.RawMessage
	// PublicJWK is the JWK encoding of the public key, including kid and alg.
	PublicJWK json.RawMessage
}

// KeyGenerator creates RSA key pairs for pad provisioning.
type KeyGenerator interface {
	Generate(keyID string) (*KeyPair, error)
}

// rsaKeyGenerator implements KeyGenerator with 2048-bit RSA keys.
type rsaKeyGenerator struct{}

// NewKeyGenerator creates a new RSA key generator.
func NewKeyGenerator() KeyGenerator {
	return &rsaKeyGenerator{}
}

// Generate creates a fresh RSA key pair under the given key ID.
func (g *rsaKeyGenerator) Generate(keyID string) (*KeyPair, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, rsaKeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}

	privateJWK := jose.JSONWebKey{
		Key:       privateKey,
		KeyID:     keyID,
		Algorithm: "RS256",
		Use:       "sig",
	}
	privateJSON, err := privateJWK.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode private JWK: %w", err)
	}

	publicJWK := jose.JSONWebKey{
		Key:       &privateKey.PublicKey,
		KeyID:     keyID,
		Algorithm: "RS256",
		Use:       "sig",
	}
	publicJSON, err := publicJWK.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode public JWK: %w", err)
	}

	return &KeyPair{
		PrivateJWK: privateJSON,
		PublicJWK:  publicJSON,
	}, nil
}
