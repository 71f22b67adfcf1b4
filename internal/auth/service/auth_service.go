package service

import (
	"context"
	"encoding/json"

	authDomain "github.com/thorsten-l/l9g-accountinfo/internal/auth/domain"
	apperrors "github.com/thorsten-l/l9g-accountinfo/internal/errors"
	padDomain "github.com/thorsten-l/l9g-accountinfo/internal/pad/domain"
)

// PadProvider looks up registered pads. Implemented by the pad use case.
type PadProvider interface {
	Get(ctx context.Context, padUUID string) (*padDomain.Pad, error)
}

// AuthService performs the privileged pad check and capture envelope
// verification against pinned keys.
type AuthService struct {
	pads     PadProvider
	verifier EnvelopeVerifier
}

// NewAuthService creates a new AuthService.
func NewAuthService(pads PadProvider, verifier EnvelopeVerifier) *AuthService {
	return &AuthService{pads: pads, verifier: verifier}
}

// Check returns the pad for padUUID only when it exists and has completed
// first-use validation. Unknown and known-but-unvalidated pads both map to
// ErrNotFound, so callers cannot probe which of the two it was.
func (s *AuthService) Check(ctx context.Context, padUUID string) (*padDomain.Pad, error) {
	pad, err := s.pads.Get(ctx, padUUID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if !pad.Validated {
		return nil, apperrors.ErrNotFound
	}
	return pad, nil
}

// VerifyCaptureFromPad runs the privileged check for padUUID and verifies
// the capture envelope against that pad's pinned key.
func (s *AuthService) VerifyCaptureFromPad(
	ctx context.Context,
	padUUID, token string,
) (*authDomain.CaptureClaims, *padDomain.Pad, error) {
	pad, err := s.Check(ctx, padUUID)
	if err != nil {
		return nil, nil, err
	}
	if !pad.HasKey() {
		return nil, nil, authDomain.ErrEnvelopeUnverifiable
	}

	claims, err := s.verifier.VerifyCapture(token, json.RawMessage(pad.PublicJWK))
	if err != nil {
		return nil, nil, err
	}
	return claims, pad, nil
}
