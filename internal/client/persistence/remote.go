package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ordo/internal/client/client"
	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/common"
	"github.com/dmitrijs2005/ordo/internal/cryptox"
	"github.com/dmitrijs2005/ordo/internal/logging"
)

// RemoteBackend stores accounts and spaces in the account service. The
// owner is taken from the access token, so ownerID arguments only fill in
// the returned records.
type RemoteBackend struct {
	client client.Client
	log    logging.Logger
}

func NewRemoteBackend(c client.Client, log logging.Logger) *RemoteBackend {
	return &RemoteBackend{client: c, log: log.With("module", "persistence/remote")}
}

func (b *RemoteBackend) SignUp(ctx context.Context, email, name string, password []byte) (*models.Session, error) {
	email = normalizeEmail(email)
	salt := cryptox.NewSalt()

	if _, err := b.client.Register(ctx, email, name, salt, cryptox.PasswordVerifier(password, salt)); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	return b.SignIn(ctx, email, password)
}

func (b *RemoteBackend) SignIn(ctx context.Context, email string, password []byte) (*models.Session, error) {
	email = normalizeEmail(email)

	salt, err := b.client.GetSalt(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, client.ErrUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get salt: %w", err)
	}

	sess, err := b.client.Login(ctx, email, cryptox.PasswordVerifier(password, salt))
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	return sess, nil
}

// Restore fetches the profile with the stored refresh token. A rejected
// token or a deleted account means the session is revoked.
func (b *RemoteBackend) Restore(ctx context.Context, cached *models.Session) (*models.Session, error) {
	sess, err := b.client.Profile(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, common.ErrorNotFound) {
			return nil, ErrSessionRevoked
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if sess.UserID != cached.UserID {
		b.log.Warn(ctx, "stored token belongs to another user", "cached", cached.UserID, "actual", sess.UserID)
		return nil, ErrSessionRevoked
	}
	return sess, nil
}

func (b *RemoteBackend) SignOut(ctx context.Context) error {
	return b.client.Logout(ctx)
}

func (b *RemoteBackend) UpdateSettings(ctx context.Context, userID string, patch models.SettingsPatch) (models.UserSettings, error) {
	if err := patch.Validate(); err != nil {
		return models.UserSettings{}, err
	}

	sess, err := b.client.UpdateSettings(ctx, patch)
	if err != nil {
		return models.UserSettings{}, fmt.Errorf("update settings: %w", err)
	}
	return sess.Settings, nil
}

func (b *RemoteBackend) DeleteAccount(ctx context.Context, userID string) error {
	if err := b.client.DeleteAccount(ctx); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	b.log.Info(ctx, "account deleted", "user_id", userID)
	return nil
}

func (b *RemoteBackend) ListSpaces(ctx context.Context, ownerID string) ([]models.SavedSpace, error) {
	list, err := b.client.ListSpaces(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].OwnerID = ownerID
	}
	return list, nil
}

func (b *RemoteBackend) CreateSpace(ctx context.Context, s models.SavedSpace) error {
	if err := validateSpace(s); err != nil {
		return err
	}
	return b.client.CreateSpace(ctx, s)
}

func (b *RemoteBackend) UpdateSpace(ctx context.Context, ownerID, id string, patch models.SpacePatch) error {
	return b.client.UpdateSpace(ctx, id, patch)
}

func (b *RemoteBackend) DeleteSpace(ctx context.Context, ownerID, id string) error {
	err := b.client.DeleteSpace(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return err
}

func (b *RemoteBackend) Capacity() int { return 0 }

func (b *RemoteBackend) Close() error {
	return b.client.Close()
}
