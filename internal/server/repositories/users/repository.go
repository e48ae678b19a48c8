package users

import (
	"context"

	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

// Repository is the credential store.
type Repository interface {
	// Create inserts user and fills its ID. A taken username yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound for an unknown username.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
