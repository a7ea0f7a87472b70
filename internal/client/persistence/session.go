package persistence

import (
	"context"

	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/client/repositories/metadata"
)

const sessionKeyPrefix = "session:"

// SessionCache keeps the signed-in session of one backend. Caches of
// different backends sharing a database do not see each other's sessions.
type SessionCache struct {
	repo metadata.Repository
	key  string
}

func NewSessionCache(repo metadata.Repository, backend string) *SessionCache {
	return &SessionCache{repo: repo, key: sessionKeyPrefix + backend}
}

// Load returns (nil, nil) when no session is cached.
func (c *SessionCache) Load(ctx context.Context) (*models.Session, error) {
	var s models.Session
	ok, err := metadata.GetJSON(ctx, c.repo, c.key, &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (c *SessionCache) Save(ctx context.Context, s *models.Session) error {
	return metadata.SetJSON(ctx, c.repo, c.key, s)
}

func (c *SessionCache) Clear(ctx context.Context) error {
	return c.repo.Delete(ctx, c.key)
}
