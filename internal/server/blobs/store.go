// Package blobs stores space images outside the database, keyed by
// "<owner>/<space>/<slot>-<version>". Every write goes to a new key, so a
// stored image is never changed in place.
package blobs

import (
	"context"
	"path"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/ordo/internal/server/models"
)

type Store interface {
	Put(ctx context.Context, key string, img models.Image) error
	// Get returns common.ErrorNotFound for unknown keys.
	Get(ctx context.Context, key string) (models.Image, error)
	// Delete ignores unknown keys.
	Delete(ctx context.Context, keys ...string) error
}

const (
	SlotAfter  = "after"
	SlotBefore = "before"
)

// NewKey returns a key no earlier write has used.
func NewKey(ownerID, spaceID, slot string) string {
	return path.Join(ownerID, spaceID, slot+"-"+uuid.NewString())
}
