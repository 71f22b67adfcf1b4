package domain

import (
	"github.com/thorsten-l/l9g-accountinfo/internal/errors"
)

// Record-specific error definitions.
var (
	// ErrRecordNotFound indicates no record exists for the given key and type.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "record not found")

	// ErrRecordImmutable indicates an update was attempted on an immutable record.
	ErrRecordImmutable = errors.Wrap(errors.ErrConflict, "record is immutable")

	// ErrChecksumMismatch indicates the decrypted payload does not match the
	// stored checksum. Treated like a failed authentication tag.
	ErrChecksumMismatch = errors.Wrap(errors.ErrIntegrity, "checksum mismatch")

	// ErrInvalidRecordType indicates an unknown record type was requested.
	ErrInvalidRecordType = errors.Wrap(errors.ErrInvalidInput, "invalid record type")
)
