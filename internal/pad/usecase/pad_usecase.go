package usecase

import (
	"context"
	"crypto"
	"encoding/json"
	"fmt"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/google/uuid"

	authDomain "github.com/thorsten-l/l9g-accountinfo/internal/auth/domain"
	authService "github.com/thorsten-l/l9g-accountinfo/internal/auth/service"
	apperrors "github.com/thorsten-l/l9g-accountinfo/internal/errors"
	padDomain "github.com/thorsten-l/l9g-accountinfo/internal/pad/domain"
	padService "github.com/thorsten-l/l9g-accountinfo/internal/pad/service"
	storeDomain "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/domain"
	storeUsecase "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/usecase"
)

// padUseCase implements PadUseCase on top of the record store.
type padUseCase struct {
	records  storeUsecase.RecordUseCase
	keygen   padService.KeyGenerator
	verifier authService.EnvelopeVerifier
}

// NewPadUseCase creates a new pad use case instance.
func NewPadUseCase(
	records storeUsecase.RecordUseCase,
	keygen padService.KeyGenerator,
	verifier authService.EnvelopeVerifier,
) PadUseCase {
	return &padUseCase{
		records:  records,
		keygen:   keygen,
		verifier: verifier,
	}
}

// Create registers a new pad under a fresh UUID.
func (p *padUseCase) Create(ctx context.Context, name string) (*padDomain.Pad, error) {
	now := time.Now().UTC()
	pad := &padDomain.Pad{
		UUID:       uuid.NewString(),
		Name:       name,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	payload, err := json.Marshal(pad)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode pad")
	}

	_, err = p.records.CreateString(ctx, storeUsecase.CreateRecordInput{
		Key:         pad.UUID,
		Name:        name,
		Description: "signature pad configuration",
		Type:        storeDomain.PadConfig,
		Secret:      true,
		CreatedBy:   "registry",
	}, string(payload))
	if err != nil {
		return nil, err
	}

	return pad, nil
}

// Get retrieves a pad by UUID.
func (p *padUseCase) Get(ctx context.Context, padUUID string) (*padDomain.Pad, error) {
	pad, _, err := p.load(ctx, padUUID)
	return pad, err
}

// IssueKey generates and pins a key pair for a not-yet-validated pad.
func (p *padUseCase) IssueKey(
	ctx context.Context,
	padUUID string,
) (*padService.KeyPair, *padDomain.Pad, error) {
	pad, recordID, err := p.load(ctx, padUUID)
	if err != nil {
		return nil, nil, err
	}
	if pad.Validated {
		return nil, nil, padDomain.ErrPadAlreadyValidated
	}

	pad.KeyVersion++
	pair, err := p.keygen.Generate(pad.KeyID())
	if err != nil {
		return nil, nil, err
	}
	pad.PublicJWK = pair.PublicJWK
	pad.ModifiedAt = time.Now().UTC()

	if err := p.save(ctx, recordID, pad); err != nil {
		return nil, nil, err
	}
	return pair, pad, nil
}

// Validate completes first-use validation with a self-signed envelope.
func (p *padUseCase) Validate(
	ctx context.Context,
	padUUID, envelope string,
) (*padDomain.Pad, error) {
	pad, recordID, err := p.load(ctx, padUUID)
	if err != nil {
		return nil, err
	}
	if pad.Validated {
		return nil, padDomain.ErrPadAlreadyValidated
	}

	claims, err := p.verifier.VerifyBootstrap(envelope)
	if err != nil {
		return nil, err
	}
	if claims.Issuer != padUUID {
		return nil, fmt.Errorf(
			"%w: issuer %q does not match pad",
			authDomain.ErrEnvelopeUnverifiable, claims.Issuer,
		)
	}

	// A pad that received an issued key must prove possession of exactly
	// that key; anything else would let an attacker swap the trust anchor
	// between issuance and validation.
	if pad.HasKey() {
		same, err := sameJWK(pad.PublicJWK, claims.PublicJWK)
		if err != nil {
			return nil, err
		}
		if !same {
			return nil, fmt.Errorf(
				"%w: envelope key does not match issued key",
				authDomain.ErrEnvelopeSignature,
			)
		}
	} else {
		pad.PublicJWK = claims.PublicJWK
	}

	pad.Validated = true
	pad.ClientEnvironment = claims.ClientEnvironment
	pad.ModifiedAt = time.Now().UTC()

	if err := p.save(ctx, recordID, pad); err != nil {
		return nil, err
	}
	return pad, nil
}

// Delete removes the pad and every record stored under its UUID.
func (p *padUseCase) Delete(ctx context.Context, padUUID string) error {
	// Ensure the pad exists so the caller gets a proper 404.
	if _, _, err := p.load(ctx, padUUID); err != nil {
		return err
	}
	return p.records.DeleteByKey(ctx, padUUID)
}

// load fetches and decodes the pad config record for padUUID.
func (p *padUseCase) load(
	ctx context.Context,
	padUUID string,
) (*padDomain.Pad, string, error) {
	record, err := p.records.GetCurrent(ctx, padUUID, storeDomain.PadConfig)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, "", padDomain.ErrPadNotFound
		}
		return nil, "", err
	}

	var pad padDomain.Pad
	if err := json.Unmarshal([]byte(record.Value), &pad); err != nil {
		return nil, "", apperrors.Wrap(err, "failed to decode pad config")
	}
	return &pad, record.ID, nil
}

// save rewrites the pad config record.
func (p *padUseCase) save(ctx context.Context, recordID string, pad *padDomain.Pad) error {
	payload, err := json.Marshal(pad)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode pad")
	}

	_, err = p.records.UpdateString(ctx, recordID, string(payload))
	return err
}

// sameJWK compares two JWKs by thumbprint.
func sameJWK(a, b json.RawMessage) (bool, error) {
	ta, err := jwkThumbprint(a)
	if err != nil {
		return false, err
	}
	tb, err := jwkThumbprint(b)
	if err != nil {
		return false, err
	}
	return string(ta) == string(tb), nil
}

func jwkThumbprint(raw json.RawMessage) ([]byte, error) {
	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", authDomain.ErrEnvelopeUnverifiable, err)
	}
	thumbprint, err := jwk.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authDomain.ErrEnvelopeUnverifiable, err)
	}
	return thumbprint, nil
}
