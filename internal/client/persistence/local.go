package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/ordo/internal/client/repositories/spaces"
	"github.com/dmitrijs2005/ordo/internal/common"
	"github.com/dmitrijs2005/ordo/internal/cryptox"
	"github.com/dmitrijs2005/ordo/internal/dbx"
	"github.com/dmitrijs2005/ordo/internal/logging"
	"github.com/google/uuid"
)

type LocalBackend struct {
	db       *sql.DB
	accounts accounts.Repository
	spaces   spaces.Repository
	log      logging.Logger
}

func NewLocalBackend(db *sql.DB, log logging.Logger) *LocalBackend {
	return &LocalBackend{
		db:       db,
		accounts: accounts.NewSQLiteRepository(db),
		spaces:   spaces.NewSQLiteRepository(db),
		log:      log.With("module", "persistence/local"),
	}
}

func sessionOf(a *accounts.Account) *models.Session {
	return &models.Session{
		UserID:      a.ID,
		Email:       a.Email,
		DisplayName: a.Name,
		Settings:    a.Settings,
	}
}

func (b *LocalBackend) SignUp(ctx context.Context, email, name string, password []byte) (*models.Session, error) {
	salt := cryptox.NewSalt()
	acc := &accounts.Account{
		ID:       uuid.NewString(),
		Email:    normalizeEmail(email),
		Name:     name,
		Salt:     salt,
		Verifier: cryptox.PasswordVerifier(password, salt),
		Settings: models.DefaultSettings(),
	}

	if err := b.accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	b.log.Info(ctx, "account created", "user_id", acc.ID)
	return sessionOf(acc), nil
}

func (b *LocalBackend) SignIn(ctx context.Context, email string, password []byte) (*models.Session, error) {
	acc, err := b.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	if !cryptox.CheckVerifier(acc.Verifier, cryptox.PasswordVerifier(password, acc.Salt)) {
		return nil, ErrInvalidCredentials
	}
	return sessionOf(acc), nil
}

func (b *LocalBackend) Restore(ctx context.Context, cached *models.Session) (*models.Session, error) {
	acc, err := b.accounts.GetByID(ctx, cached.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrSessionRevoked
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return sessionOf(acc), nil
}

// SignOut has nothing to revoke locally.
func (b *LocalBackend) SignOut(ctx context.Context) error {
	return nil
}

func (b *LocalBackend) UpdateSettings(ctx context.Context, userID string, patch models.SettingsPatch) (models.UserSettings, error) {
	if err := patch.Validate(); err != nil {
		return models.UserSettings{}, err
	}

	acc, err := b.accounts.GetByID(ctx, userID)
	if err != nil {
		return models.UserSettings{}, fmt.Errorf("get account: %w", err)
	}

	settings := acc.Settings.Apply(patch)
	if err := b.accounts.UpdateSettings(ctx, userID, settings); err != nil {
		return models.UserSettings{}, fmt.Errorf("update settings: %w", err)
	}
	return settings, nil
}

func (b *LocalBackend) DeleteAccount(ctx context.Context, userID string) error {
	err := dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := spaces.NewSQLiteRepository(tx).DeleteByOwner(ctx, userID); err != nil {
			return err
		}
		return accounts.NewSQLiteRepository(tx).Delete(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	b.log.Info(ctx, "account deleted", "user_id", userID)
	return nil
}

func (b *LocalBackend) ListSpaces(ctx context.Context, ownerID string) ([]models.SavedSpace, error) {
	return b.spaces.List(ctx, ownerID)
}

func (b *LocalBackend) CreateSpace(ctx context.Context, s models.SavedSpace) error {
	if err := validateSpace(s); err != nil {
		return err
	}
	return b.spaces.Create(ctx, s)
}

func (b *LocalBackend) UpdateSpace(ctx context.Context, ownerID, id string, patch models.SpacePatch) error {
	return dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := spaces.NewSQLiteRepository(tx)
		cur, err := repo.Get(ctx, ownerID, id)
		if err != nil {
			return err
		}
		return repo.Update(ctx, cur.Apply(patch))
	})
}

func (b *LocalBackend) DeleteSpace(ctx context.Context, ownerID, id string) error {
	return b.spaces.Delete(ctx, ownerID, id)
}

func (b *LocalBackend) Capacity() int { return LocalCapacity }

func (b *LocalBackend) Close() error {
	return b.db.Close()
}
