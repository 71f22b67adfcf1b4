// Package usecase implements the pad registry: registration, key
// issuance, first-use validation, and removal. Pads are persisted as
// encrypted pad-config records in the record store.
package usecase

import (
	"context"

	padDomain "github.com/thorsten-l/l9g-accountinfo/internal/pad/domain"
	padService "github.com/thorsten-l/l9g-accountinfo/internal/pad/service"
)

// PadUseCase defines the interface for pad lifecycle business logic.
type PadUseCase interface {
	// Create registers a new pad under a fresh UUID.
	Create(ctx context.Context, name string) (*padDomain.Pad, error)

	// Get retrieves a pad by UUID.
	Get(ctx context.Context, padUUID string) (*padDomain.Pad, error)

	// IssueKey generates a key pair for a not-yet-validated pad, pins the
	// public half, and returns the private half for one-time delivery.
	// Returns ErrPadAlreadyValidated once the pad is validated.
	IssueKey(ctx context.Context, padUUID string) (*padService.KeyPair, *padDomain.Pad, error)

	// Validate completes first-use validation with a self-signed envelope.
	// The envelope's embedded key becomes the pinned key; if a key was
	// already issued, the envelope must prove possession of exactly that
	// key. Validation happens at most once per pad.
	Validate(ctx context.Context, padUUID, envelope string) (*padDomain.Pad, error)

	// Delete removes the pad and every record stored under its UUID.
	Delete(ctx context.Context, padUUID string) error
}
