package users

import (
	"context"

	"github.com/dmitrijs2005/ordo/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in its ID. A taken email yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateSettings(ctx context.Context, id string, s models.Settings) error
	Delete(ctx context.Context, id string) error
}
