// Package usecase implements the business logic of the encrypted record
// store: transparent encryption of sensitive values, checksum verification
// on every read, immutability enforcement, and blob handling for binary
// payloads.
package usecase

import (
	"context"

	storeDomain "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/domain"
)

// RecordRepository defines the interface for SecretRecord persistence operations.
type RecordRepository interface {
	Create(ctx context.Context, record *storeDomain.SecretRecord) error
	Update(ctx context.Context, record *storeDomain.SecretRecord) error
	GetByID(ctx context.Context, id string) (*storeDomain.SecretRecord, error)
	GetCurrent(
		ctx context.Context,
		key string,
		recordType storeDomain.RecordType,
	) (*storeDomain.SecretRecord, error)
	ListByKey(ctx context.Context, key string) ([]*storeDomain.SecretRecord, error)
	Delete(ctx context.Context, id string) error
	DeleteByKey(ctx context.Context, key string) error
}

// BlobStore defines the interface for sealed binary payload storage.
type BlobStore interface {
	Save(ctx context.Context, id string, payload, aad []byte) error
	Load(ctx context.Context, id string, aad []byte) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

// CreateRecordInput carries the metadata for a new record.
type CreateRecordInput struct {
	Key         string
	Name        string
	Description string
	Type        storeDomain.RecordType
	Immutable   bool
	Secret      bool
	CreatedBy   string
}

// RecordUseCase defines the interface for record management business logic.
type RecordUseCase interface {
	// CreateString stores an inline value. When the input marks the record
	// as secret, the value is encrypted before it reaches the repository.
	CreateString(
		ctx context.Context,
		input CreateRecordInput,
		value string,
	) (*storeDomain.SecretRecord, error)

	// CreateBinary stores a binary payload in the blob store and its
	// metadata in the repository.
	CreateBinary(
		ctx context.Context,
		input CreateRecordInput,
		payload []byte,
	) (*storeDomain.SecretRecord, error)

	// UpdateString replaces the inline value of a mutable record.
	// Returns ErrRecordImmutable for immutable records.
	UpdateString(ctx context.Context, id, value string) (*storeDomain.SecretRecord, error)

	// GetCurrent retrieves the most recently modified record for a key and
	// type with its value decrypted and checksum verified.
	GetCurrent(
		ctx context.Context,
		key string,
		recordType storeDomain.RecordType,
	) (*storeDomain.SecretRecord, error)

	// GetByID retrieves a record by ID with its value decrypted and
	// checksum verified.
	GetByID(ctx context.Context, id string) (*storeDomain.SecretRecord, error)

	// LoadBinary loads and verifies the blob payload of a binary record.
	LoadBinary(ctx context.Context, id string) ([]byte, error)

	// ListByKey lists record metadata for a key without decrypting values.
	ListByKey(ctx context.Context, key string) ([]*storeDomain.SecretRecord, error)

	// Delete removes a record and, for binary types, its blob.
	Delete(ctx context.Context, id string) error

	// DeleteByKey removes every record and blob belonging to a key.
	DeleteByKey(ctx context.Context, key string) error
}
