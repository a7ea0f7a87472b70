package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/ordo/internal/client/migrations"
	"github.com/dmitrijs2005/ordo/internal/client/repositories/metadata"

	_ "modernc.org/sqlite"
)

const refreshTokenKey = "refresh_token"

func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrations.Up(ctx, db)
}

// InitDatabase opens the SQLite store at dsn and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	// SQLite serialises writers anyway; one connection also keeps
	// ":memory:" databases consistent.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// MetadataTokenStore keeps the refresh token in the metadata table.
type MetadataTokenStore struct {
	repo metadata.Repository
}

func NewMetadataTokenStore(repo metadata.Repository) *MetadataTokenStore {
	return &MetadataTokenStore{repo: repo}
}

func (s *MetadataTokenStore) LoadRefreshToken(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, refreshTokenKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *MetadataTokenStore) SaveRefreshToken(ctx context.Context, token string) error {
	if token == "" {
		return s.repo.Delete(ctx, refreshTokenKey)
	}
	return s.repo.Set(ctx, refreshTokenKey, []byte(token))
}
