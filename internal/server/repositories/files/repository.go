package files

import (
	"context"

	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

// Repository is the file metadata table. Rows are append-only; there is no
// update operation.
type Repository interface {
	Insert(ctx context.Context, file *models.File) (int64, error)
	// ListByOwner orders by uploaded_at DESC, id DESC.
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.File, error)
	// FindByOwnerAndOriginalName returns the most recent match.
	FindByOwnerAndOriginalName(ctx context.Context, ownerID int64, name string) (*models.File, error)
	// FindByOwnerAndStoredName looks up the unique row for a stored name.
	FindByOwnerAndStoredName(ctx context.Context, ownerID int64, storedName string) (*models.File, error)
	DeleteByID(ctx context.Context, id int64) error
}
