package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ordo/internal/client/models"
)

// Account is a locally registered user. Salt and Verifier are the same
// pair the remote service keeps; the password itself is never stored.
type Account struct {
	ID        string
	Email     string
	Name      string
	Salt      []byte
	Verifier  []byte
	Settings  models.UserSettings
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	UpdateSettings(ctx context.Context, id string, s models.UserSettings) error
	Delete(ctx context.Context, id string) error
}
