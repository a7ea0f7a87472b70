package spaces

import (
	"context"

	"github.com/dmitrijs2005/ordo/internal/client/models"
)

type Repository interface {
	List(ctx context.Context, ownerID string) ([]models.SavedSpace, error)
	Get(ctx context.Context, ownerID, id string) (*models.SavedSpace, error)
	Create(ctx context.Context, s models.SavedSpace) error
	Update(ctx context.Context, s models.SavedSpace) error
	Delete(ctx context.Context, ownerID, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
}
