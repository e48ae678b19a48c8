package files

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/dbx"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

// SQLiteRepository implements the metadata table for the embedded SQLite backend.
// uploaded_at is always written in UTC so that its text form sorts chronologically.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, file *models.File) (int64, error) {
	query := `
		INSERT INTO files (owner_id, stored_name, original_name, size, uploaded_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now()
	}
	file.UploadedAt = file.UploadedAt.UTC()

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

func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.File, error) {
	query := `
		SELECT id, owner_id, stored_name, original_name, size, uploaded_at FROM files
		WHERE owner_id = ?
		ORDER BY uploaded_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanFiles(rows)
}

func (r *SQLiteRepository) FindByOwnerAndOriginalName(ctx context.Context, ownerID int64, name string) (*models.File, error) {
	query := `
		SELECT id, owner_id, stored_name, original_name, size, uploaded_at FROM files
		WHERE owner_id = ? AND original_name = ?
		ORDER BY uploaded_at DESC, id DESC
		LIMIT 1
	`
	return scanFile(r.db.QueryRowContext(ctx, query, ownerID, name))
}

func (r *SQLiteRepository) FindByOwnerAndStoredName(ctx context.Context, ownerID int64, storedName string) (*models.File, error) {
	query := `
		SELECT id, owner_id, stored_name, original_name, size, uploaded_at FROM files
		WHERE owner_id = ? AND stored_name = ?
	`
	return scanFile(r.db.QueryRowContext(ctx, query, ownerID, storedName))
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}
