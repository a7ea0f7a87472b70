package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/ordo/internal/common"
	"github.com/dmitrijs2005/ordo/internal/dbx"
	"github.com/dmitrijs2005/ordo/internal/logging"
	"github.com/dmitrijs2005/ordo/internal/server/blobs"
	"github.com/dmitrijs2005/ordo/internal/server/config"
	"github.com/dmitrijs2005/ordo/internal/server/models"
	"github.com/dmitrijs2005/ordo/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/ordo/internal/server/repositories/spaces"
	"github.com/dmitrijs2005/ordo/internal/server/repositories/users"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[string]*models.User
	nextID int
	err    error
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	cp := *u
	cp.ID = fmt.Sprintf("u-%d", f.nextID)
	f.byID[cp.ID] = &cp
	u.ID = cp.ID
	return u, nil
}

func (f *fakeUsers) GetUserByLogin(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdateSettings(_ context.Context, id string, s models.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Settings = s
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeSpaces struct {
	mu      sync.Mutex
	rows    map[string]*models.Space
	seq     map[string]int
	n       int
	failPut bool
}

func spaceKey(owner, id string) string { return owner + "/" + id }

func (f *fakeSpaces) List(_ context.Context, ownerID string) ([]*models.Space, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Space
	for _, r := range f.rows {
		if r.OwnerID == ownerID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return f.seq[spaceKey(ownerID, out[i].ID)] > f.seq[spaceKey(ownerID, out[j].ID)]
	})
	return out, nil
}

func (f *fakeSpaces) Get(_ context.Context, ownerID, id string) (*models.Space, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[spaceKey(ownerID, id)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeSpaces) Create(_ context.Context, s *models.Space) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut {
		return fmt.Errorf("db error: %w", sql.ErrConnDone)
	}
	k := spaceKey(s.OwnerID, s.ID)
	if _, ok := f.rows[k]; ok {
		return common.ErrorAlreadyExists
	}
	f.n++
	f.seq[k] = f.n
	cp := *s
	f.rows[k] = &cp
	return nil
}

func (f *fakeSpaces) Update(_ context.Context, s *models.Space) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut {
		return fmt.Errorf("db error: %w", sql.ErrConnDone)
	}
	k := spaceKey(s.OwnerID, s.ID)
	if _, ok := f.rows[k]; !ok {
		return common.ErrorNotFound
	}
	cp := *s
	f.rows[k] = &cp
	return nil
}

func (f *fakeSpaces) UpdateMeta(_ context.Context, ownerID, id, name, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[spaceKey(ownerID, id)]
	if !ok {
		return common.ErrorNotFound
	}
	r.Name, r.Note = name, note
	return nil
}

func (f *fakeSpaces) Delete(_ context.Context, ownerID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := spaceKey(ownerID, id)
	if _, ok := f.rows[k]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, k)
	return nil
}

func (f *fakeSpaces) DeleteByOwner(_ context.Context, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, r := range f.rows {
		if r.OwnerID == ownerID {
			delete(f.rows, k)
		}
	}
	return nil
}

type fakeManager struct {
	users  *fakeUsers
	spaces *fakeSpaces
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeManager) Users(dbx.DBTX) users.Repository           { return m.users }
func (m *fakeManager) Spaces(dbx.DBTX) spaces.Repository         { return m.spaces }
func (m *fakeManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	panic("refresh tokens come from the injected store")
}

type env struct {
	db     *sql.DB
	mock   sqlmock.Sqlmock
	mgr    *fakeManager
	blobs  *blobs.MemoryStore
	tokens *refreshtokens.RedisRepository
	redis  *miniredis.Miniredis
	users  *UserService
	spaces *SpaceService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	e := &env{
		db:   db,
		mock: mock,
		mgr: &fakeManager{
			users:  &fakeUsers{byID: map[string]*models.User{}},
			spaces: &fakeSpaces{rows: map[string]*models.Space{}, seq: map[string]int{}},
		},
		blobs:  blobs.NewMemoryStore(),
		tokens: refreshtokens.NewRedisRepository(client),
		redis:  mr,
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AccessTokenValidityDuration = time.Minute
	cfg.RefreshTokenValidityDuration = time.Hour

	e.users = NewUserService(db, e.mgr, e.tokens, e.blobs, cfg, logging.Discard())
	e.spaces = NewSpaceService(db, e.mgr, e.blobs, logging.Discard())
	return e
}

func (e *env) expectTx() {
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
}

func (e *env) register(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), email, "Ada", []byte("salt"), []byte("verifier"))
	require.NoError(t, err)
	return u
}

func png(b byte) models.Image { return models.Image{MimeType: "image/png", Data: []byte{b}} }
