// Package service implements envelope verification and the privileged pad
// check. Envelopes are RS256 JWTs; validation envelopes are verified
// against the key they embed (trust on first use), capture envelopes
// against the pad's pinned key.
package service

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/thorsten-l/l9g-accountinfo/internal/auth/domain"
)

// acceptedAlgorithms lists the JWT signing algorithms pads may use.
var acceptedAlgorithms = []string{"RS256", "RS384", "RS512"}

// EnvelopeVerifier verifies the JWT envelopes exchanged with pads.
type EnvelopeVerifier interface {
	// VerifyBootstrap verifies a self-signed validation envelope against
	// the RSA public key it embeds and returns its claims.
	VerifyBootstrap(token string) (*authDomain.BootstrapClaims, error)

	// VerifyCapture verifies a capture envelope against the given pinned
	// public JWK and returns its claims.
	VerifyCapture(token string, publicJWK json.RawMessage) (*authDomain.CaptureClaims, error)
}

// jwtEnvelopeVerifier implements EnvelopeVerifier with golang-jwt.
type jwtEnvelopeVerifier struct {
	parser *jwt.Parser
}

// NewEnvelopeVerifier creates a new JWT envelope verifier.
func NewEnvelopeVerifier() EnvelopeVerifier {
	return &jwtEnvelopeVerifier{
		parser: jwt.NewParser(jwt.WithValidMethods(acceptedAlgorithms)),
	}
}

// VerifyBootstrap verifies a self-signed validation envelope.
//
// The embedded publicJwk claim is extracted without verification first,
// then the whole token is verified against exactly that key. The envelope
// proves possession of the private half; whether to trust the key at all is
// the caller's decision.
func (v *jwtEnvelopeVerifier) VerifyBootstrap(token string) (*authDomain.BootstrapClaims, error) {
	unverified := &authDomain.BootstrapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, unverified); err != nil {
		return nil, fmt.Errorf("%w: %v", authDomain.ErrEnvelopeMalformed, err)
	}
	if len(unverified.PublicJWK) == 0 {
		return nil, fmt.Errorf("%w: missing publicJwk claim", authDomain.ErrEnvelopeUnverifiable)
	}

	publicKey, err := parseRSAPublicJWK(unverified.PublicJWK)
	if err != nil {
		return nil, err
	}

	claims := &authDomain.BootstrapClaims{}
	if _, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return publicKey, nil
	}); err != nil {
		return nil, mapJWTError(err)
	}

	return claims, nil
}

// VerifyCapture verifies a capture envelope against the pad's pinned key.
func (v *jwtEnvelopeVerifier) VerifyCapture(
	token string,
	publicJWK json.RawMessage,
) (*authDomain.CaptureClaims, error) {
	publicKey, err := parseRSAPublicJWK(publicJWK)
	if err != nil {
		return nil, err
	}

	claims := &authDomain.CaptureClaims{}
	if _, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return publicKey, nil
	}); err != nil {
		return nil, mapJWTError(err)
	}

	return claims, nil
}

// parseRSAPublicJWK decodes a JWK and requires an RSA public key.
func parseRSAPublicJWK(raw json.RawMessage) (*rsa.PublicKey, error) {
	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", authDomain.ErrEnvelopeUnverifiable, err)
	}

	publicKey, ok := jwk.Key.(*rsa.PublicKey)
	if !ok {
		return nil, authDomain.ErrNotRSAKey
	}
	return publicKey, nil
}

// mapJWTError translates golang-jwt error reasons into domain errors.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", authDomain.ErrEnvelopeMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", authDomain.ErrEnvelopeSignature, err)
	default:
		return fmt.Errorf("%w: %v", authDomain.ErrEnvelopeUnverifiable, err)
	}
}
