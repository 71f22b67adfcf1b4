package repository

import (
	"context"
	"database/sql"

	apperrors "github.com/thorsten-l/l9g-accountinfo/internal/errors"
	storeDomain "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/domain"
)

// MySQLRecordRepository implements SecretRecord persistence for MySQL databases.
type MySQLRecordRepository struct {
	db *sql.DB
}

// NewMySQLRecordRepository creates a new MySQL SecretRecord repository instance.
func NewMySQLRecordRepository(db *sql.DB) *MySQLRecordRepository {
	return &MySQLRecordRepository{db: db}
}

// Create inserts a new record into the MySQL database.
func (m *MySQLRecordRepository) Create(ctx context.Context, record *storeDomain.SecretRecord) error {
	query := `INSERT INTO secret_records
			  (id, record_key, name, description, record_type, immutable, secret,
			   size, checksum, value, created_by, created_at, modified_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := m.db.ExecContext(
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
func (m *MySQLRecordRepository) Update(ctx context.Context, record *storeDomain.SecretRecord) error {
	query := `UPDATE secret_records
			  SET name = ?, description = ?, size = ?, checksum = ?,
			      value = ?, modified_at = ?
			  WHERE id = ?`

	result, err := m.db.ExecContext(
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
func (m *MySQLRecordRepository) GetByID(
	ctx context.Context,
	id string,
) (*storeDomain.SecretRecord, error) {
	query := `SELECT id, record_key, name, description, record_type, immutable, secret,
			         size, checksum, value, created_by, created_at, modified_at
			  FROM secret_records
			  WHERE id = ?`

	return m.scanOne(m.db.QueryRowContext(ctx, query, id))
}

// GetCurrent retrieves the most recently modified record for a key and type.
func (m *MySQLRecordRepository) GetCurrent(
	ctx context.Context,
	key string,
	recordType storeDomain.RecordType,
) (*storeDomain.SecretRecord, error) {
	query := `SELECT id, record_key, name, description, record_type, immutable, secret,
			         size, checksum, value, created_by, created_at, modified_at
			  FROM secret_records
			  WHERE record_key = ? AND record_type = ?
			  ORDER BY modified_at DESC
			  LIMIT 1`

	return m.scanOne(m.db.QueryRowContext(ctx, query, key, recordType))
}

// ListByKey retrieves all records belonging to a logical key, newest first.
func (m *MySQLRecordRepository) ListByKey(
	ctx context.Context,
	key string,
) ([]*storeDomain.SecretRecord, error) {
	query := `SELECT id, record_key, name, description, record_type, immutable, secret,
			         size, checksum, value, created_by, created_at, modified_at
			  FROM secret_records
			  WHERE record_key = ?
			  ORDER BY modified_at DESC`

	rows, err := m.db.QueryContext(ctx, query, key)
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
func (m *MySQLRecordRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM secret_records WHERE id = ?`

	if _, err := m.db.ExecContext(ctx, query, id); err != nil {
		return apperrors.Wrap(err, "failed to delete record")
	}
	return nil
}

// DeleteByKey removes all records belonging to a logical key.
func (m *MySQLRecordRepository) DeleteByKey(ctx context.Context, key string) error {
	query := `DELETE FROM secret_records WHERE record_key = ?`

	if _, err := m.db.ExecContext(ctx, query, key); err != nil {
		return apperrors.Wrap(err, "failed to delete records by key")
	}
	return nil
}

func (m *MySQLRecordRepository) scanOne(row *sql.Row) (*storeDomain.SecretRecord, error) {
	var record storeDomain.SecretRecord
	if err := scanRecord(row.Scan, &record); err != nil {
		if err == sql.ErrNoRows {
			return nil, storeDomain.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get record")
	}
	return &record, nil
}
