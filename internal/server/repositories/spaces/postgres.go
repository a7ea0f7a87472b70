package spaces

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ordo/internal/common"
	"github.com/dmitrijs2005/ordo/internal/dbx"
	"github.com/dmitrijs2005/ordo/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const spaceColumns = `id, owner_id, name, created_date, kind, note, after_key, after_mime, before_key, before_mime`

func scanSpace(row interface{ Scan(...any) error }) (*models.Space, error) {
	s := &models.Space{}
	err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.CreatedDate, &s.Kind, &s.Note,
		&s.AfterKey, &s.AfterMime, &s.BeforeKey, &s.BeforeMime)
	return s, err
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.Space, error) {
	query := `SELECT ` + spaceColumns + `
		FROM spaces
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Space
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*models.Space, error) {
	query := `SELECT ` + spaceColumns + `
		FROM spaces
		WHERE owner_id = $1 AND id = $2
	`
	s, err := scanSpace(r.db.QueryRowContext(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Space) error {
	query := `
		INSERT INTO spaces (` + spaceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (owner_id, id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, s.ID, s.OwnerID, s.Name, s.CreatedDate, s.Kind, s.Note,
		s.AfterKey, s.AfterMime, s.BeforeKey, s.BeforeMime)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorAlreadyExists
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, s *models.Space) error {
	query := `
		UPDATE spaces SET name = $1, note = $2, after_key = $3, after_mime = $4, before_key = $5, before_mime = $6
		WHERE owner_id = $7 AND id = $8
	`
	res, err := r.db.ExecContext(ctx, query, s.Name, s.Note, s.AfterKey, s.AfterMime, s.BeforeKey, s.BeforeMime,
		s.OwnerID, s.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateMeta(ctx context.Context, ownerID, id, name, note string) error {
	query := `
		UPDATE spaces SET name = $1, note = $2
		WHERE owner_id = $3 AND id = $4
	`
	res, err := r.db.ExecContext(ctx, query, name, note, ownerID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete returns common.ErrorNotFound when no row matched.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `
		DELETE FROM spaces
		WHERE owner_id = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM spaces WHERE owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
