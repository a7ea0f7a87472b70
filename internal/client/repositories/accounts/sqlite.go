package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/common"
	"github.com/dmitrijs2005/ordo/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a; a taken email yields common.ErrorAlreadyExists.
func (r *SQLiteRepository) Create(ctx context.Context, a *Account) error {
	settings, err := json.Marshal(a.Settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, name, salt, verifier, settings)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO NOTHING
	`, a.ID, a.Email, a.Name, a.Salt, a.Verifier, string(settings))
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

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return r.get(ctx, `WHERE email = ?`, email)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	return r.get(ctx, `WHERE id = ?`, id)
}

func (r *SQLiteRepository) get(ctx context.Context, where string, arg any) (*Account, error) {
	var (
		a        Account
		settings string
		created  int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, salt, verifier, settings, CAST(strftime('%s', created_at) AS INTEGER)
		FROM accounts `+where, arg).
		Scan(&a.ID, &a.Email, &a.Name, &a.Salt, &a.Verifier, &settings, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	a.CreatedAt = time.Unix(created, 0).UTC()
	a.Settings = models.DefaultSettings()
	if err := json.Unmarshal([]byte(settings), &a.Settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &a, nil
}

func (r *SQLiteRepository) UpdateSettings(ctx context.Context, id string, s models.UserSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET settings = ? WHERE id = ?`, string(raw), id)
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

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
