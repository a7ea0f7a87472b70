package client

import (
	"context"

	"github.com/dmitrijs2005/ordo/internal/client/models"
)

// Client is the transport-agnostic contract of the remote account service.
// Methods other than Register, GetSalt, Login and Ping require an
// authenticated session: a Login in this process or a refresh token kept
// by the TokenStore from an earlier one.
type Client interface {
	Close() error
	Register(ctx context.Context, email, name string, salt, verifier []byte) (string, error)
	GetSalt(ctx context.Context, email string) ([]byte, error)
	Login(ctx context.Context, email string, verifier []byte) (*models.Session, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.Session, error)
	UpdateSettings(ctx context.Context, patch models.SettingsPatch) (*models.Session, error)
	DeleteAccount(ctx context.Context) error
	ListSpaces(ctx context.Context) ([]models.SavedSpace, error)
	CreateSpace(ctx context.Context, s models.SavedSpace) error
	UpdateSpace(ctx context.Context, id string, p models.SpacePatch) error
	DeleteSpace(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// TokenStore keeps the refresh token between runs.
type TokenStore interface {
	LoadRefreshToken(ctx context.Context) (string, error)
	SaveRefreshToken(ctx context.Context, token string) error
}
