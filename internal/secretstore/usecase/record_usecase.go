package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/thorsten-l/l9g-accountinfo/internal/crypto/service"
	apperrors "github.com/thorsten-l/l9g-accountinfo/internal/errors"
	storeDomain "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/domain"
)

// recordUseCase implements the RecordUseCase interface.
type recordUseCase struct {
	repo   RecordRepository
	blobs  BlobStore
	sealer cryptoService.Sealer
}

// NewRecordUseCase creates a new record use case instance.
func NewRecordUseCase(
	repo RecordRepository,
	blobs BlobStore,
	sealer cryptoService.Sealer,
) RecordUseCase {
	return &recordUseCase{
		repo:   repo,
		blobs:  blobs,
		sealer: sealer,
	}
}

// CreateString stores an inline value, encrypting it first when the record is secret.
func (r *recordUseCase) CreateString(
	ctx context.Context,
	input CreateRecordInput,
	value string,
) (*storeDomain.SecretRecord, error) {
	if !input.Type.Valid() || input.Type.Binary() {
		return nil, storeDomain.ErrInvalidRecordType
	}

	record := newRecord(input)
	record.Size = int64(len(value))
	record.Checksum = storeDomain.ComputeChecksum([]byte(value))

	stored, err := r.encodeValue(record, value)
	if err != nil {
		return nil, err
	}
	record.Value = stored

	if err := r.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	record.Value = value
	return record, nil
}

// CreateBinary stores a binary payload in the blob store and its metadata in the repository.
func (r *recordUseCase) CreateBinary(
	ctx context.Context,
	input CreateRecordInput,
	payload []byte,
) (*storeDomain.SecretRecord, error) {
	if !input.Type.Valid() || !input.Type.Binary() {
		return nil, storeDomain.ErrInvalidRecordType
	}

	record := newRecord(input)
	record.Size = int64(len(payload))
	record.Checksum = storeDomain.ComputeChecksum(payload)

	if err := r.blobs.Save(ctx, record.ID, payload, []byte(record.ID)); err != nil {
		return nil, err
	}

	if err := r.repo.Create(ctx, record); err != nil {
		// Best effort: do not leave an orphan blob behind.
		_ = r.blobs.Delete(ctx, record.ID)
		return nil, err
	}

	return record, nil
}

// UpdateString replaces the inline value of a mutable record.
func (r *recordUseCase) UpdateString(
	ctx context.Context,
	id, value string,
) (*storeDomain.SecretRecord, error) {
	record, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Immutable {
		return nil, storeDomain.ErrRecordImmutable
	}
	if record.Type.Binary() {
		return nil, storeDomain.ErrInvalidRecordType
	}

	record.Size = int64(len(value))
	record.Checksum = storeDomain.ComputeChecksum([]byte(value))
	record.ModifiedAt = time.Now().UTC()

	stored, err := r.encodeValue(record, value)
	if err != nil {
		return nil, err
	}
	record.Value = stored

	if err := r.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	record.Value = value
	return record, nil
}

// GetCurrent retrieves the latest record for a key and type, decrypted and verified.
func (r *recordUseCase) GetCurrent(
	ctx context.Context,
	key string,
	recordType storeDomain.RecordType,
) (*storeDomain.SecretRecord, error) {
	record, err := r.repo.GetCurrent(ctx, key, recordType)
	if err != nil {
		return nil, err
	}
	return r.decodeRecord(record)
}

// GetByID retrieves a record by ID, decrypted and verified.
func (r *recordUseCase) GetByID(ctx context.Context, id string) (*storeDomain.SecretRecord, error) {
	record, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.decodeRecord(record)
}

// LoadBinary loads and verifies the blob payload of a binary record.
func (r *recordUseCase) LoadBinary(ctx context.Context, id string) ([]byte, error) {
	record, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !record.Type.Binary() {
		return nil, storeDomain.ErrInvalidRecordType
	}

	payload, err := r.blobs.Load(ctx, record.ID, []byte(record.ID))
	if err != nil {
		return nil, err
	}

	if storeDomain.ComputeChecksum(payload) != record.Checksum {
		return nil, storeDomain.ErrChecksumMismatch
	}
	return payload, nil
}

// ListByKey lists record metadata without decrypting values.
func (r *recordUseCase) ListByKey(
	ctx context.Context,
	key string,
) ([]*storeDomain.SecretRecord, error) {
	records, err := r.repo.ListByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	// Stored values stay opaque in listings.
	for _, record := range records {
		record.Value = ""
	}
	return records, nil
}

// Delete removes a record and, for binary types, its blob.
func (r *recordUseCase) Delete(ctx context.Context, id string) error {
	record, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if record.Type.Binary() {
		if err := r.blobs.Delete(ctx, record.ID); err != nil {
			return err
		}
	}
	return r.repo.Delete(ctx, id)
}

// DeleteByKey removes every record and blob belonging to a key.
func (r *recordUseCase) DeleteByKey(ctx context.Context, key string) error {
	records, err := r.repo.ListByKey(ctx, key)
	if err != nil {
		return err
	}

	for _, record := range records {
		if record.Type.Binary() {
			if err := r.blobs.Delete(ctx, record.ID); err != nil {
				return err
			}
		}
	}
	return r.repo.DeleteByKey(ctx, key)
}

// encodeValue returns the stored form of an inline value: the value itself
// for non-secret records, or the prefixed base64 sealed payload otherwise.
// The record ID is the AAD, binding the ciphertext to its row.
func (r *recordUseCase) encodeValue(record *storeDomain.SecretRecord, value string) (string, error) {
	if !record.Secret {
		return value, nil
	}

	sealed, err := r.sealer.Seal([]byte(value), []byte(record.ID))
	if err != nil {
		return "", err
	}
	return storeDomain.EncryptedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// decodeRecord decrypts an inline value in place and verifies its checksum.
// Binary records keep an empty inline value; their payload is verified by
// LoadBinary.
func (r *recordUseCase) decodeRecord(
	record *storeDomain.SecretRecord,
) (*storeDomain.SecretRecord, error) {
	if record.Type.Binary() {
		return record, nil
	}

	value := record.Value
	if strings.HasPrefix(value, storeDomain.EncryptedPrefix) {
		sealed, err := base64.StdEncoding.DecodeString(
			strings.TrimPrefix(value, storeDomain.EncryptedPrefix),
		)
		if err != nil {
			return nil, apperrors.Wrap(
				apperrors.ErrIntegrity,
				fmt.Sprintf("record %s: malformed stored value", record.ID),
			)
		}

		plaintext, err := r.sealer.Open(sealed, []byte(record.ID))
		if err != nil {
			return nil, err
		}
		value = string(plaintext)
	}

	if storeDomain.ComputeChecksum([]byte(value)) != record.Checksum {
		return nil, storeDomain.ErrChecksumMismatch
	}

	record.Value = value
	return record, nil
}

// newRecord builds a record skeleton with a fresh time-ordered ID.
func newRecord(input CreateRecordInput) *storeDomain.SecretRecord {
	now := time.Now().UTC()
	return &storeDomain.SecretRecord{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Key:         input.Key,
		Name:        input.Name,
		Description: input.Description,
		Type:        input.Type,
		Immutable:   input.Immutable,
		Secret:      input.Secret,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
}
