package domain

import (
	"github.com/thorsten-l/l9g-accountinfo/internal/errors"
)

// Envelope verification error definitions. The sub-reasons are kept apart
// so the operator log can tell a garbled token from a forged one.
var (
	// ErrEnvelopeMalformed indicates the token is not a parseable JWT.
	ErrEnvelopeMalformed = errors.Wrap(errors.ErrInvalidInput, "envelope malformed")

	// ErrEnvelopeSignature indicates the signature did not verify against
	// the expected key.
	ErrEnvelopeSignature = errors.Wrap(errors.ErrUnauthorized, "envelope signature invalid")

	// ErrEnvelopeUnverifiable indicates the token could not be verified for
	// a structural reason: missing or unusable key, unexpected algorithm,
	// or expired claims.
	ErrEnvelopeUnverifiable = errors.Wrap(errors.ErrUnauthorized, "envelope unverifiable")

	// ErrNotRSAKey indicates the presented JWK is not an RSA public key.
	// Only RSA keys are accepted as pad trust anchors.
	ErrNotRSAKey = errors.Wrap(errors.ErrInvalidInput, "key is not an RSA public key")
)
