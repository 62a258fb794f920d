package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mpavlovs/attachd/internal/common"
	"github.com/mpavlovs/attachd/internal/dbx"
	"github.com/mpavlovs/attachd/internal/server/models"
)

// PostgresRepository implements attachment metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new metadata row.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Attachment) error {
	query := `
		INSERT INTO attachments (id, filename, content_type, size, storage_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now());
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Filename, a.ContentType, a.Size, a.StorageKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of an existing row. Exactly one row
// must be affected.
func (r *PostgresRepository) Update(ctx context.Context, a *models.Attachment) error {
	query := `
		UPDATE attachments
		SET filename=$2, content_type=$3, size=$4, storage_key=$5, updated_at=now()
		WHERE id=$1;
	`
	res, err := r.db.ExecContext(ctx, query,
		a.ID, a.Filename, a.ContentType, a.Size, a.StorageKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// GetByID returns a single metadata row.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Attachment, error) {
	query := `
		SELECT id, filename, content_type, size, storage_key, created_at, updated_at
		FROM attachments WHERE id=$1;
	`
	result := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&result.ID, &result.Filename, &result.ContentType, &result.Size,
		&result.StorageKey, &result.CreatedAt, &result.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select attachment: %w", err)
	}
	return result, nil
}

// List returns all metadata rows, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Attachment, error) {
	query := `
		SELECT id, filename, content_type, size, storage_key, created_at, updated_at
		FROM attachments ORDER BY created_at DESC;
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select attachments: %w", err)
	}
	defer rows.Close()

	var result []*models.Attachment
	for rows.Next() {
		var item models.Attachment
		if err := rows.Scan(&item.ID, &item.Filename, &item.ContentType, &item.Size,
			&item.StorageKey, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the metadata row. Missing rows map to ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM attachments WHERE id=$1;`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
