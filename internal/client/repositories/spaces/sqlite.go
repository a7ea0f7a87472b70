package spaces

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/common"
	"github.com/dmitrijs2005/ordo/internal/dbx"
)

const selectColumns = `SELECT id, owner_id, name, created_date, kind, note,
	after_mime, after_data, before_mime, before_data FROM spaces`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSpace(row scanner) (models.SavedSpace, error) {
	var s models.SavedSpace
	var kind string
	err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.CreatedDate, &kind, &s.Note,
		&s.AfterImage.MIMEType, &s.AfterImage.Data, &s.BeforeImage.MIMEType, &s.BeforeImage.Data)
	s.Kind = models.SpaceKind(kind)
	return s, err
}

// List returns the owner's spaces, newest id first.
func (r *SQLiteRepository) List(ctx context.Context, ownerID string) ([]models.SavedSpace, error) {
	rows, err := r.db.QueryContext(ctx,
		selectColumns+` WHERE owner_id = ? ORDER BY CAST(id AS INTEGER) DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.SavedSpace
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, ownerID, id string) (*models.SavedSpace, error) {
	s, err := scanSpace(r.db.QueryRowContext(ctx, selectColumns+` WHERE owner_id = ? AND id = ?`, ownerID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &s, nil
}

// Create inserts s. An existing (owner, id) yields common.ErrorAlreadyExists
// and leaves the stored record untouched.
func (r *SQLiteRepository) Create(ctx context.Context, s models.SavedSpace) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO spaces (owner_id, id, name, created_date, kind, note,
			after_mime, after_data, before_mime, before_data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, id) DO NOTHING
	`, s.OwnerID, s.ID, s.Name, s.CreatedDate, string(s.Kind), s.Note,
		s.AfterImage.MIMEType, s.AfterImage.Data, s.BeforeImage.MIMEType, nullable(s.BeforeImage.Data))
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

func (r *SQLiteRepository) Update(ctx context.Context, s models.SavedSpace) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE spaces SET name = ?, note = ?, after_mime = ?, after_data = ?, before_mime = ?, before_data = ?
		WHERE owner_id = ? AND id = ?
	`, s.Name, s.Note, s.AfterImage.MIMEType, s.AfterImage.Data, s.BeforeImage.MIMEType,
		nullable(s.BeforeImage.Data), s.OwnerID, s.ID)
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

// Delete is a no-op for unknown ids.
func (r *SQLiteRepository) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM spaces WHERE owner_id = ? AND id = ?`, ownerID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM spaces WHERE owner_id = ?`, ownerID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func nullable(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
