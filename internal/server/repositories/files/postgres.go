package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/dbx"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

// PostgresRepository implements the metadata table over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert appends a row and fills file.ID. A zero UploadedAt is set to now.
func (r *PostgresRepository) Insert(ctx context.Context, file *models.File) (int64, error) {
	query := `
		INSERT INTO files (owner_id, stored_name, original_name, size, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now().UTC()
	}

	err := r.db.QueryRowContext(ctx, query,
		file.OwnerID, file.StoredName, file.OriginalName, file.Size, file.UploadedAt).Scan(&file.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: stored name %q", common.ErrorAlreadyExists, file.StoredName)
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return file.ID, nil
}

// ListByOwner returns all rows of ownerID, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.File, error) {
	query := `
		SELECT id, owner_id, stored_name, original_name, size, uploaded_at FROM files
		WHERE owner_id = $1
		ORDER BY uploaded_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanFiles(rows)
}

// FindByOwnerAndOriginalName returns the most recent row with the given
// display name, or common.ErrorNotFound.
func (r *PostgresRepository) FindByOwnerAndOriginalName(ctx context.Context, ownerID int64, name string) (*models.File, error) {
	query := `
		SELECT id, owner_id, stored_name, original_name, size, uploaded_at FROM files
		WHERE owner_id = $1 AND original_name = $2
		ORDER BY uploaded_at DESC, id DESC
		LIMIT 1
	`
	return scanFile(r.db.QueryRowContext(ctx, query, ownerID, name))
}

// FindByOwnerAndStoredName returns the row for storedName or common.ErrorNotFound.
func (r *PostgresRepository) FindByOwnerAndStoredName(ctx context.Context, ownerID int64, storedName string) (*models.File, error) {
	query := `
		SELECT id, owner_id, stored_name, original_name, size, uploaded_at FROM files
		WHERE owner_id = $1 AND stored_name = $2
	`
	return scanFile(r.db.QueryRowContext(ctx, query, ownerID, storedName))
}

// DeleteByID removes one row; a missing row reports common.ErrorNotFound.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func scanFile(row *sql.Row) (*models.File, error) {
	var f models.File
	err := row.Scan(&f.ID, &f.OwnerID, &f.StoredName, &f.OriginalName, &f.Size, &f.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &f, nil
}

func scanFiles(rows *sql.Rows) ([]*models.File, error) {
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		var f models.File
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.StoredName, &f.OriginalName, &f.Size, &f.UploadedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func expectOneRow(res sql.Result) error {
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
