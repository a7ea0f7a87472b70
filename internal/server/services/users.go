package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/ordo/internal/common"
	"github.com/dmitrijs2005/ordo/internal/cryptox"
	"github.com/dmitrijs2005/ordo/internal/dbx"
	"github.com/dmitrijs2005/ordo/internal/logging"
	"github.com/dmitrijs2005/ordo/internal/server/auth"
	"github.com/dmitrijs2005/ordo/internal/server/blobs"
	"github.com/dmitrijs2005/ordo/internal/server/config"
	"github.com/dmitrijs2005/ordo/internal/server/models"
	"github.com/dmitrijs2005/ordo/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/ordo/internal/server/repositories/repomanager"
)

const defaultDisplayName = "User"

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	tokens                       refreshtokens.Repository
	blobs                        blobs.Store
	log                          logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

// NewUserService wires the service. A nil tokens repository falls back to
// the PostgreSQL one.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens refreshtokens.Repository,
	store blobs.Store, cfg *config.Config, log logging.Logger) *UserService {
	if tokens == nil {
		tokens = m.RefreshTokens(db)
	}
	return &UserService{
		db:                           db,
		repomanager:                  m,
		tokens:                       tokens,
		blobs:                        store,
		log:                          log.With("module", "users"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, email, name string, salt, verifier []byte) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email", common.ErrorValidation)
	}
	if len(salt) == 0 || len(verifier) == 0 {
		return nil, fmt.Errorf("%w: credentials", common.ErrorValidation)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultDisplayName
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Salt:     salt,
		Verifier: verifier,
		Settings: models.DefaultSettings(),
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (s *UserService) getRandomSalt() []byte {
	return cryptox.NewSalt()
}

// GetSalt returns a random salt for unknown emails so that the response
// does not reveal whether an account exists.
func (s *UserService) GetSalt(ctx context.Context, email string) ([]byte, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return s.getRandomSalt(), nil
		}
		s.log.Error(ctx, "get salt", "error", err)
		return nil, common.ErrorInternal
	}

	return user.Salt, nil
}

// Login checks the verifier and issues a token pair. A blank profile name
// is reported as "User".
func (s *UserService) Login(ctx context.Context, email string, verifierCandidate []byte) (*TokenPair, *models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "login lookup", "error", err)
		return nil, nil, common.ErrorInternal
	}

	if !cryptox.CheckVerifier(user.Verifier, verifierCandidate) {
		return nil, nil, common.ErrorUnauthorized
	}

	if user.Name == "" {
		user.Name = defaultDisplayName
	}

	pair, err := s.generateTokenPair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// RefreshToken rotates a refresh token: the old one is revoked and a new
// pair is issued.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.tokens.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if token.Expires.Before(s.now()) {
		_ = s.tokens.Delete(ctx, refreshToken)
		return nil, common.ErrRefreshTokenExpired
	}

	if err := s.tokens.Delete(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("error deleting refresh token: %w", err)
	}

	return s.generateTokenPair(ctx, token.UserID)
}

func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokens.Delete(ctx, refreshToken)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Name == "" {
		user.Name = defaultDisplayName
	}
	return user, nil
}

func (s *UserService) UpdateSettings(ctx context.Context, userID string, patch models.SettingsPatch) (*models.User, error) {
	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		u, err := repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		next := u.Settings.Apply(patch)
		if err := next.Validate(); err != nil {
			return err
		}
		if err := repo.UpdateSettings(ctx, userID, next); err != nil {
			return err
		}

		u.Settings = next
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user with every space, image and refresh
// token. Blob and token cleanup failures are logged and do not fail the
// call once the rows are gone.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	var keys []string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		spaceRepo := s.repomanager.Spaces(tx)

		list, err := spaceRepo.List(ctx, userID)
		if err != nil {
			return err
		}
		keys = blobKeys(list...)

		if err := spaceRepo.DeleteByOwner(ctx, userID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, userID)
	})
	if err != nil {
		return err
	}

	if err := s.tokens.DeleteByUser(ctx, userID); err != nil {
		s.log.Warn(ctx, "revoke tokens after account deletion", "user_id", userID, "error", err)
	}
	if len(keys) > 0 {
		if err := s.blobs.Delete(ctx, keys...); err != nil {
			s.log.Warn(ctx, "delete images after account deletion", "user_id", userID, "error", err)
		}
	}

	s.log.Info(ctx, "account deleted", "user_id", userID)
	return nil
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.tokens.Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		s.log.Error(ctx, "store refresh token", "error", err)
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func blobKeys(list ...*models.Space) []string {
	var keys []string
	for _, sp := range list {
		if sp.AfterKey != "" {
			keys = append(keys, sp.AfterKey)
		}
		if sp.BeforeKey != "" {
			keys = append(keys, sp.BeforeKey)
		}
	}
	return keys
}
