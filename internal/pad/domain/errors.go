package domain

import (
	"github.com/thorsten-l/l9g-accountinfo/internal/errors"
)

// Pad-specific error definitions.
var (
	// ErrPadNotFound indicates no pad is registered under the given UUID.
	ErrPadNotFound = errors.Wrap(errors.ErrNotFound, "pad not found")

	// ErrPadAlreadyValidated indicates a validation or key issuance was
	// attempted on a pad that already completed first-use validation.
	ErrPadAlreadyValidated = errors.Wrap(errors.ErrConflict, "pad already validated")

	// ErrPadNotValidated indicates a device operation was attempted by a
	// pad that has not completed first-use validation.
	ErrPadNotValidated = errors.Wrap(errors.ErrForbidden, "pad not validated")
)
