// Package repository implements SecretRecord persistence for PostgreSQL and
// MySQL. The current record for a (key, type) pair is the row with the
// latest modified_at timestamp.
package repository

import (
	"context"
	"database/sql"

	apperrors "github.com/thorsten-l/l9g-accountinfo/internal/errors"
	storeDomain "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/domain"
)

// PostgreSQLRecordRepository implements SecretRecord persistence for PostgreSQL databases.
type PostgreSQLRecordRepository struct {
	db *sql.DB
}

// NewPostgreSQLRecordRepository creates a new PostgreSQL SecretRecord repository instance.
func NewPostgreSQLRecordRepository(db *sql.DB) *PostgreSQLRecordRepository {
	return &PostgreSQLRecordRepository{db: db}
}

// Create inserts a new record into the PostgreSQL database.
func (p *PostgreSQLRecordRepository) Create(ctx context.Context, record *storeDomain.SecretRecord) error {
	query := `INSERT INTO secret_records
			  (id, record_key, name, description, record_type, immutable, secret,
			   size, checksum, value, created_by, created_at, modified_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := p.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.Key,
		record.Name,
		record.Description,
		record.Type,
		record.Immutable,
		record.Secret,
		record.Size,
		record.Checksum,
		record.Value,
		record.CreatedBy,
		record.CreatedAt,
		record.ModifiedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create record")
	}
	return nil
}

// Update rewrites the value and payload metadata of an existing record.
func (p *PostgreSQLRecordRepository) Update(ctx context.Context, record *storeDomain.SecretRecord) error {
	query := `UPDATE secret_records
			  SET name = $1, description = $2, size = $3, checksum = $4,
			      value = $5, modified_at = $6
			  WHERE id = $7`

	result, err := p.db.ExecContext(
		ctx,
		query,
		record.Name,
		record.Description,
		record.Size,
		record.Checksum,
		record.Value,
		record.ModifiedAt,
		record.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update record")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update record")
	}
	if rows == 0 {
		return storeDomain.ErrRecordNotFound
	}
	return nil
}

// GetByID retrieves a record by its unique identifier.
func (p *PostgreSQLRecordRepository) GetByID(
	ctx context.Context,
	id string,
) (*storeDomain.SecretRecord, error) {
	query := `SELECT id, record_key, name, description, record_type, immutable, secret,
			         size, checksum, value, created_by, created_at, modified_at
			  FROM secret_records
			  WHERE id = $1`

	return p.scanOne(p.db.QueryRowContext(ctx, query, id))
}

// GetCurrent retrieves the most recently modified record for a key and type.
func (p *PostgreSQLRecordRepository) GetCurrent(
	ctx context.Context,
	key string,
	recordType storeDomain.RecordType,
) (*storeDomain.SecretRecord, error) {
	query := `SELECT id, record_key, name, description, record_type, immutable, secret,
			         size, checksum, value, created_by, created_at, modified_at
			  FROM secret_records
			  WHERE record_key = $1 AND record_type = $2
			  ORDER BY modified_at DESC
			  LIMIT 1`

	return p.scanOne(p.db.QueryRowContext(ctx, query, key, recordType))
}

// ListByKey retrieves all records belonging to a logical key, newest first.
func (p *PostgreSQLRecordRepository) ListByKey(
	ctx context.Context,
	key string,
) ([]*storeDomain.SecretRecord, error) {
	query := `SELECT id, record_key, name, description, record_type, immutable, secret,
			         size, checksum, value, created_by, created_at, modified_at
			  FROM secret_records
			  WHERE record_key = $1
			  ORDER BY modified_at DESC`

	rows, err := p.db.QueryContext(ctx, query, key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list records by key")
	}
	defer func() { _ = rows.Close() }()

	var records []*storeDomain.SecretRecord
	for rows.Next() {
		var record storeDomain.SecretRecord
		if err := scanRecord(rows.Scan, &record); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan record")
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list records by key")
	}

	return records, nil
}

// Delete removes a record row.
func (p *PostgreSQLRecordRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM secret_records WHERE id = $1`

	if _, err := p.db.ExecContext(ctx, query, id); err != nil {
		return apperrors.Wrap(err, "failed to delete record")
	}
	return nil
}

// DeleteByKey removes all records belonging to a logical key.
func (p *PostgreSQLRecordRepository) DeleteByKey(ctx context.Context, key string) error {
	query := `DELETE FROM secret_records WHERE record_key = $1`

	if _, err := p.db.ExecContext(ctx, query, key); err != nil {
		return apperrors.Wrap(err, "failed to delete records by key")
	}
	return nil
}

func (p *PostgreSQLRecordRepository) scanOne(row *sql.Row) (*storeDomain.SecretRecord, error) {
	var record storeDomain.SecretRecord
	if err := scanRecord(row.Scan, &record); err != nil {
		if err == sql.ErrNoRows {
			return nil, storeDomain.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get record")
	}
	return &record, nil
}

// scanRecord maps a row to a SecretRecord; shared between both drivers.
func scanRecord(scan func(dest ...any) error, record *storeDomain.SecretRecord) error {
	return scan(
		&record.ID,
		&record.Key,
		&record.Name,
		&record.Description,
		&record.Type,
		&record.Immutable,
		&record.Secret,
		&record.Size,
		&record.Checksum,
		&record.Value,
		&record.CreatedBy,
		&record.CreatedAt,
		&record.ModifiedAt,
	)
}
