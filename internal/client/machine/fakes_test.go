package machine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/ordo/internal/client/capture"
	"github.com/dmitrijs2005/ordo/internal/client/generation"
	"github.com/dmitrijs2005/ordo/internal/client/library"
	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/common"
	"github.com/dmitrijs2005/ordo/internal/logging"
	"github.com/stretchr/testify/require"
)

var (
	capturedImg  = models.NewJPEG([]byte("captured"))
	generatedImg = models.NewJPEG([]byte("generated"))
	testNow      = time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC)
	testSession  = &models.Session{
		UserID:      "u1",
		Email:       "ada@example.com",
		DisplayName: "Ada",
		Settings:    models.DefaultSettings(),
	}
)

func fiveSteps() []models.OrganizingStep {
	out := make([]models.OrganizingStep, models.StepCount)
	for i := range out {
		out[i] = models.OrganizingStep{Title: "Step", Description: "Do it"}
	}
	return out
}

type fakeBackend struct {
	mu sync.Mutex

	session   *models.Session
	err       error
	block     chan struct{}
	signIns   int
	signUps   int
	signOuts  int
	deletedID string

	settingsErr error
	patches     []models.SettingsPatch

	profile    *models.Session
	restoreErr error
	restores   int
}

func (b *fakeBackend) wait() {
	if b.block != nil {
		<-b.block
	}
}

func (b *fakeBackend) SignUp(_ context.Context, email, name string, _ []byte) (*models.Session, error) {
	b.wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signUps++
	if b.err != nil {
		return nil, b.err
	}
	return &models.Session{UserID: "u1", Email: email, DisplayName: name, Settings: models.DefaultSettings()}, nil
}

func (b *fakeBackend) SignIn(context.Context, string, []byte) (*models.Session, error) {
	b.wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signIns++
	if b.err != nil {
		return nil, b.err
	}
	s := *testSession
	return &s, nil
}

func (b *fakeBackend) Restore(_ context.Context, cached *models.Session) (*models.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.restores++
	if b.restoreErr != nil {
		return nil, b.restoreErr
	}
	s := *cached
	if b.profile != nil {
		s = *b.profile
	}
	return &s, nil
}

func (b *fakeBackend) SignOut(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signOuts++
	return b.err
}

func (b *fakeBackend) UpdateSettings(_ context.Context, _ string, p models.SettingsPatch) (models.UserSettings, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.patches = append(b.patches, p)
	if b.settingsErr != nil {
		return models.UserSettings{}, b.settingsErr
	}
	return models.DefaultSettings().Apply(p), nil
}

func (b *fakeBackend) DeleteAccount(_ context.Context, userID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.deletedID = userID
	return nil
}

type memCache struct {
	mu      sync.Mutex
	session *models.Session
	loadErr error
	saves   int
	clears  int
}

func (c *memCache) Load(context.Context) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	if c.session == nil {
		return nil, nil
	}
	s := *c.session
	return &s, nil
}

func (c *memCache) Save(_ context.Context, s *models.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *s
	c.session = &cp
	c.saves++
	return nil
}

func (c *memCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
	c.clears++
	return nil
}

// spaceStore is a library.Store that counts calls.
type spaceStore struct {
	mu        sync.Mutex
	spaces    map[string]models.SavedSpace
	listCalls int
	updates   int
	deletes   int
	createErr error
	listErr   error
}

func newSpaceStore() *spaceStore {
	return &spaceStore{spaces: map[string]models.SavedSpace{}}
}

func (s *spaceStore) ListSpaces(_ context.Context, ownerID string) ([]models.SavedSpace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.SavedSpace
	for _, sp := range s.spaces {
		if sp.OwnerID == ownerID {
			out = append(out, sp)
		}
	}
	return out, nil
}

func (s *spaceStore) CreateSpace(_ context.Context, sp models.SavedSpace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.spaces[sp.ID] = sp
	return nil
}

func (s *spaceStore) UpdateSpace(_ context.Context, _ string, id string, p models.SpacePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	sp, ok := s.spaces[id]
	if !ok {
		return common.ErrorNotFound
	}
	s.spaces[id] = sp.Apply(p)
	return nil
}

func (s *spaceStore) DeleteSpace(_ context.Context, _ string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	delete(s.spaces, id)
	return nil
}

func (s *spaceStore) Capacity() int { return 8 }

type fakeGenerator struct {
	mu        sync.Mutex
	configErr error
	result    generation.Result
	err       error
	block     chan struct{}
	started   chan struct{}

	transforms []models.Image
	styles     []models.OrganizingStyle
	prompts    []string
}

func (g *fakeGenerator) CheckConfig() error { return g.configErr }

func (g *fakeGenerator) run() {
	if g.started != nil {
		close(g.started)
	}
	if g.block != nil {
		<-g.block
	}
}

func (g *fakeGenerator) Transform(_ context.Context, before models.Image, style models.OrganizingStyle) (generation.Result, error) {
	g.run()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transforms = append(g.transforms, before)
	g.styles = append(g.styles, style)
	return g.result, g.err
}

func (g *fakeGenerator) Imagine(_ context.Context, prompt string) (generation.Result, error) {
	g.run()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.result, g.err
}

type fakeStream struct {
	mu         sync.Mutex
	img        models.Image
	captureErr error
	releases   int
}

func (s *fakeStream) Capture(context.Context) (models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.captureErr != nil {
		return models.Image{}, s.captureErr
	}
	return s.img, nil
}

func (s *fakeStream) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases++
	return nil
}

func (s *fakeStream) released() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releases
}

type fakeCamera struct {
	mu      sync.Mutex
	deny    bool
	streams []*fakeStream
}

func (c *fakeCamera) Request(context.Context) (capture.Stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deny {
		return nil, capture.ErrPermissionDenied
	}
	s := &fakeStream{img: capturedImg}
	c.streams = append(c.streams, s)
	return s, nil
}

type harness struct {
	m       *Machine
	backend *fakeBackend
	cache   *memCache
	store   *spaceStore
	lib     *library.Manager
	gen     *fakeGenerator
	camera  *fakeCamera
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		backend: &fakeBackend{},
		cache:   &memCache{},
		store:   newSpaceStore(),
		gen:     &fakeGenerator{},
		camera:  &fakeCamera{},
	}
	h.lib = library.NewManager(h.store, logging.Discard(), library.WithClock(func() time.Time { return testNow }))
	h.m = New(Deps{
		Backend:   h.backend,
		Cache:     h.cache,
		Library:   h.lib,
		Generator: h.gen,
		Camera:    h.camera,
		Logger:    logging.Discard(),
		Clock:     func() time.Time { return testNow },
	})
	return h
}

// home starts a harness with a cached session and lands on home.
func home(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	s := *testSession
	h.cache.session = &s
	require.NoError(t, h.m.Start(context.Background()))
	require.Equal(t, models.ScreenHome, h.m.State().Screen)
	return h
}

// styleSelection drives a signed-in harness to style-selection.
func styleSelection(t *testing.T) *harness {
	t.Helper()
	h := home(t)
	ctx := context.Background()
	require.NoError(t, h.m.StartScan(ctx))
	require.NoError(t, h.m.Shutter(ctx))
	require.NoError(t, h.m.ConfirmCapture())
	require.Equal(t, models.ScreenStyleSelection, h.m.State().Screen)
	return h
}

// result drives a signed-in harness to a successful result.
func result(t *testing.T) *harness {
	t.Helper()
	h := styleSelection(t)
	h.gen.result = generation.Result{Image: generatedImg, Steps: fiveSteps()}
	require.NoError(t, h.m.PickStyle(context.Background(), models.StyleCompact))
	require.Equal(t, models.ScreenResult, h.m.State().Screen)
	return h
}
