// Package domain defines the core domain model for encrypted record storage.
// Every persisted value is a SecretRecord; sensitive values are encrypted
// before they reach the database, binary payloads live in the blob store
// referenced by record ID.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// EncryptedPrefix marks an inline record value as an encrypted, base64-encoded
// sealed payload. Values without the prefix are stored as-is.
const EncryptedPrefix = "{AES256GCM}"

// SecretRecord represents one stored value with its metadata.
//
// The current record for a logical key and type is the one with the latest
// ModifiedAt; updates to mutable records rewrite the row in place, immutable
// records reject updates entirely.
type SecretRecord struct {
	// ID is the unique identifier of this record and, for binary types,
	// the name of its blob.
	ID string
	// Key is the logical owner of the record, e.g. a signature pad UUID.
	Key string
	// Name is a human-readable label.
	Name string
	// Description is optional free text.
	Description string
	// Type classifies the payload.
	Type RecordType
	// Immutable records reject any update after creation.
	Immutable bool
	// Secret marks the value as sensitive; it is encrypted at rest.
	Secret bool
	// Size is the plaintext payload size in bytes.
	Size int64
	// Checksum is the hex-encoded SHA-256 of the plaintext payload.
	Checksum string
	// Value holds the inline payload for non-binary types. When Secret is
	// set, the stored form is EncryptedPrefix plus the base64 sealed bytes.
	Value string
	// CreatedBy identifies the creating principal.
	CreatedBy string

	CreatedAt  time.Time
	ModifiedAt time.Time
}

// ComputeChecksum returns the hex-encoded SHA-256 digest of a plaintext payload.
func ComputeChecksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
