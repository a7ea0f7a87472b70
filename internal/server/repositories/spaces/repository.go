// Package spaces persists the metadata of saved spaces per owner. Image
// bytes are kept elsewhere; rows carry only blob keys.
package spaces

import (
	"context"

	"github.com/dmitrijs2005/ordo/internal/server/models"
)

type Repository interface {
	// List returns the owner's spaces, newest first.
	List(ctx context.Context, ownerID string) ([]*models.Space, error)
	Get(ctx context.Context, ownerID, id string) (*models.Space, error)
	// Create inserts s; an existing (owner, id) yields common.ErrorAlreadyExists.
	Create(ctx context.Context, s *models.Space) error
	// Update rewrites the mutable columns of an existing row.
	Update(ctx context.Context, s *models.Space) error
	// UpdateMeta changes name and note only.
	UpdateMeta(ctx context.Context, ownerID, id, name, note string) error
	Delete(ctx context.Context, ownerID, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
}
