package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ordo/internal/client/models"
)

// LocalCapacity is the per-owner library cap of the local store.
const LocalCapacity = 8

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidSpace       = errors.New("invalid space")
	ErrSessionRevoked     = errors.New("session is no longer valid")
)

type Backend interface {
	SignUp(ctx context.Context, email, name string, password []byte) (*models.Session, error)
	SignIn(ctx context.Context, email string, password []byte) (*models.Session, error)
	SignOut(ctx context.Context) error
	// Restore checks a cached session against the account and returns the
	// stored profile. A session the backend no longer accepts yields
	// ErrSessionRevoked.
	Restore(ctx context.Context, cached *models.Session) (*models.Session, error)
	// UpdateSettings applies patch and returns the stored settings.
	UpdateSettings(ctx context.Context, userID string, patch models.SettingsPatch) (models.UserSettings, error)
	// DeleteAccount removes the account and every space it owns.
	DeleteAccount(ctx context.Context, userID string) error

	ListSpaces(ctx context.Context, ownerID string) ([]models.SavedSpace, error)
	CreateSpace(ctx context.Context, s models.SavedSpace) error
	UpdateSpace(ctx context.Context, ownerID, id string, patch models.SpacePatch) error
	// DeleteSpace does not fail for unknown ids.
	DeleteSpace(ctx context.Context, ownerID, id string) error

	// Capacity is the library cap; zero means unlimited.
	Capacity() int
	Close() error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSpace(s models.SavedSpace) error {
	switch {
	case s.OwnerID == "":
		return fmt.Errorf("%w: missing owner", ErrInvalidSpace)
	case s.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidSpace)
	case strings.TrimSpace(s.Name) == "":
		return fmt.Errorf("%w: blank name", ErrInvalidSpace)
	case s.AfterImage.IsZero():
		return fmt.Errorf("%w: missing after image", ErrInvalidSpace)
	}
	return nil
}
