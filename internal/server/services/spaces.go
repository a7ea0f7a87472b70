package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ordo/internal/common"
	"github.com/dmitrijs2005/ordo/internal/logging"
	"github.com/dmitrijs2005/ordo/internal/server/blobs"
	"github.com/dmitrijs2005/ordo/internal/server/models"
	"github.com/dmitrijs2005/ordo/internal/server/repositories/repomanager"
)

type SpaceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blobs.Store
	log         logging.Logger
}

func NewSpaceService(db *sql.DB, m repomanager.RepositoryManager, store blobs.Store, log logging.Logger) *SpaceService {
	return &SpaceService{db: db, repomanager: m, blobs: store, log: log.With("module", "spaces")}
}

// SpaceUpdate carries the optional parts of an update. An empty name, a nil
// note and zero images leave the stored value unchanged.
type SpaceUpdate struct {
	Name   string
	Note   *string
	After  models.Image
	Before models.Image
}

// List returns the owner's spaces with images, newest first.
func (s *SpaceService) List(ctx context.Context, ownerID string) ([]*models.SpaceContent, error) {
	rows, err := s.repomanager.Spaces(s.db).List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]*models.SpaceContent, 0, len(rows))
	for _, row := range rows {
		c, err := s.load(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *SpaceService) load(ctx context.Context, row *models.Space) (*models.SpaceContent, error) {
	c := &models.SpaceContent{Space: *row}

	after, err := s.blobs.Get(ctx, row.AfterKey)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", row.AfterKey, err)
	}
	c.After = after

	if row.BeforeKey != "" {
		before, err := s.blobs.Get(ctx, row.BeforeKey)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			s.log.Warn(ctx, "before image missing", "space_id", row.ID)
		case err != nil:
			return nil, fmt.Errorf("load image %s: %w", row.BeforeKey, err)
		default:
			c.Before = before
		}
	}
	return c, nil
}

func validateSpace(c *models.SpaceContent) error {
	switch {
	case strings.TrimSpace(c.ID) == "":
		return fmt.Errorf("%w: space id", common.ErrorValidation)
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("%w: space name", common.ErrorValidation)
	case c.Kind != models.KindScan && c.Kind != models.KindDream:
		return fmt.Errorf("%w: space kind %q", common.ErrorValidation, c.Kind)
	case c.After.IsZero():
		return fmt.Errorf("%w: after image", common.ErrorValidation)
	}
	return nil
}

// Create stores the images under fresh keys and then inserts the row. An
// existing ID yields common.ErrorAlreadyExists and leaves the stored space
// untouched.
func (s *SpaceService) Create(ctx context.Context, ownerID string, c *models.SpaceContent) error {
	if err := validateSpace(c); err != nil {
		return err
	}

	row := c.Space
	row.OwnerID = ownerID
	row.Name = strings.TrimSpace(row.Name)
	row.AfterKey, row.AfterMime = "", ""
	row.BeforeKey, row.BeforeMime = "", ""

	written, err := s.putImages(ctx, &row, c.After, c.Before)
	if err != nil {
		return err
	}

	if err := s.repomanager.Spaces(s.db).Create(ctx, &row); err != nil {
		s.cleanup(ctx, written)
		return err
	}
	return nil
}

// Update writes new images under fresh keys and swaps them into the row.
// The replaced images are removed only after the row is written; on
// failure the stored space is unchanged.
func (s *SpaceService) Update(ctx context.Context, ownerID, id string, u SpaceUpdate) error {
	repo := s.repomanager.Spaces(s.db)

	row, err := repo.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if name := strings.TrimSpace(u.Name); name != "" {
		row.Name = name
	}
	if u.Note != nil {
		row.Note = *u.Note
	}

	if u.After.IsZero() && u.Before.IsZero() {
		return repo.UpdateMeta(ctx, ownerID, id, row.Name, row.Note)
	}

	prev := *row
	written, err := s.putImages(ctx, row, u.After, u.Before)
	if err != nil {
		return err
	}

	if err := repo.Update(ctx, row); err != nil {
		s.cleanup(ctx, written)
		return err
	}

	var replaced []string
	if row.AfterKey != prev.AfterKey && prev.AfterKey != "" {
		replaced = append(replaced, prev.AfterKey)
	}
	if row.BeforeKey != prev.BeforeKey && prev.BeforeKey != "" {
		replaced = append(replaced, prev.BeforeKey)
	}
	s.cleanup(ctx, replaced)
	return nil
}

// putImages stores the non-zero images under new keys and points row at
// them. It returns the keys written; on error nothing is left behind.
func (s *SpaceService) putImages(ctx context.Context, row *models.Space, after, before models.Image) ([]string, error) {
	var written []string

	if !after.IsZero() {
		key := blobs.NewKey(row.OwnerID, row.ID, blobs.SlotAfter)
		if err := s.blobs.Put(ctx, key, after); err != nil {
			return nil, err
		}
		written = append(written, key)
		row.AfterKey, row.AfterMime = key, after.MimeType
	}

	if !before.IsZero() {
		key := blobs.NewKey(row.OwnerID, row.ID, blobs.SlotBefore)
		if err := s.blobs.Put(ctx, key, before); err != nil {
			s.cleanup(ctx, written)
			return nil, err
		}
		written = append(written, key)
		row.BeforeKey, row.BeforeMime = key, before.MimeType
	}
	return written, nil
}

// Delete returns common.ErrorNotFound for unknown IDs.
func (s *SpaceService) Delete(ctx context.Context, ownerID, id string) error {
	repo := s.repomanager.Spaces(s.db)

	row, err := repo.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.cleanup(ctx, blobKeys(row))
	return nil
}

func (s *SpaceService) cleanup(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	if err := s.blobs.Delete(ctx, keys...); err != nil {
		s.log.Warn(ctx, "delete images", "keys", keys, "error", err)
	}
}
