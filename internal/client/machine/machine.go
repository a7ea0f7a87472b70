package machine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/ordo/internal/client/capture"
	"github.com/dmitrijs2005/ordo/internal/client/generation"
	"github.com/dmitrijs2005/ordo/internal/client/library"
	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/logging"
)

// DefaultSplashDelay is how long the splash screen stays up.
const DefaultSplashDelay = 2 * time.Second

var (
	ErrInvalidTransition = errors.New("action not available on this screen")
	ErrBusy              = errors.New("another operation is in progress")
	ErrNotSignedIn       = errors.New("not signed in")
	ErrValidation        = errors.New("invalid input")
	ErrSpaceNotFound     = errors.New("space not found")
)

// Backend is the account half of the persistence backend.
type Backend interface {
	SignUp(ctx context.Context, email, name string, password []byte) (*models.Session, error)
	SignIn(ctx context.Context, email string, password []byte) (*models.Session, error)
	SignOut(ctx context.Context) error
	Restore(ctx context.Context, cached *models.Session) (*models.Session, error)
	UpdateSettings(ctx context.Context, userID string, patch models.SettingsPatch) (models.UserSettings, error)
	DeleteAccount(ctx context.Context, userID string) error
}

// SessionCache persists the session between runs.
type SessionCache interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
}

type Library interface {
	Load(ctx context.Context, ownerID string) error
	List() []models.SavedSpace
	Recent(n int) []models.SavedSpace
	Len() int
	Get(id string) (models.SavedSpace, bool)
	Create(ctx context.Context, d library.Draft) (models.SavedSpace, error)
	Rename(ctx context.Context, id, name string) error
	SetNote(ctx context.Context, id, note string) error
	Delete(ctx context.Context, id string) error
	Clear()
}

type Generator interface {
	CheckConfig() error
	Transform(ctx context.Context, before models.Image, style models.OrganizingStyle) (generation.Result, error)
	Imagine(ctx context.Context, prompt string) (generation.Result, error)
}

type Deps struct {
	Backend     Backend
	Cache       SessionCache
	Library     Library
	Generator   Generator
	Camera      capture.Camera
	Logger      logging.Logger
	Clock       func() time.Time
	SplashDelay time.Duration
}

type Machine struct {
	backend   Backend
	cache     SessionCache
	library   Library
	generator Generator
	camera    capture.Camera
	log       logging.Logger
	now       func() time.Time
	splash    time.Duration

	mu      sync.Mutex
	screen  models.Screen
	history []models.Screen
	session *models.Session
	page    int

	stream        capture.Stream
	cameraPending bool

	captured models.Image
	after    models.Image
	kind     models.SpaceKind
	viewMode models.ViewMode
	style    models.OrganizingStyle
	prompt   string
	spaceID  string

	steps     []models.OrganizingStep
	stepIndex int
	deadline  time.Time

	notice       *Notice
	isGenerating bool
	isSyncing    bool
}

func New(d Deps) *Machine {
	log := d.Logger
	if log == nil {
		log = logging.Discard()
	}
	now := d.Clock
	if now == nil {
		now = time.Now
	}

	return &Machine{
		backend:   d.Backend,
		cache:     d.Cache,
		library:   d.Library,
		generator: d.Generator,
		camera:    d.Camera,
		log:       log.With("module", "machine"),
		now:       now,
		splash:    d.SplashDelay,
		screen:    models.ScreenSplash,
		history:   []models.Screen{models.ScreenSplash},
		viewMode:  models.ViewAfter,
	}
}

// State returns a snapshot of the machine.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := State{
		Screen:         m.screen,
		OnboardingPage: m.page,
		Captured:       m.captured,
		After:          m.after,
		Kind:           m.kind,
		ViewMode:       m.viewMode,
		Style:          m.style,
		Prompt:         m.prompt,
		SpaceID:        m.spaceID,
		Steps:          slices.Clone(m.steps),
		StepIndex:      m.stepIndex,
		FocusDeadline:  m.deadline,
		Spaces:         m.library.List(),
		Recent:         m.library.Recent(library.DefaultPreview),
		IsGenerating:   m.isGenerating,
		IsSyncing:      m.isSyncing,
		Scanning:       m.stream != nil,
	}
	if m.session != nil {
		s := *m.session
		st.Session = &s
	}
	if m.notice != nil {
		n := *m.notice
		st.Notice = &n
	}
	return st
}

// History lists every screen entered so far, starting with splash.
func (m *Machine) History() []models.Screen {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.history)
}

// setScreen must be called with mu held. Leaving scan releases the held
// stream.
func (m *Machine) setScreen(to models.Screen) {
	from := m.screen
	if from == models.ScreenScan && to != models.ScreenScan {
		m.releaseStream()
	}
	m.screen = to
	m.notice = nil
	m.history = append(m.history, to)
	m.log.Debug(context.Background(), "screen changed", "from", from, "to", to)
}

func (m *Machine) releaseStream() {
	if m.stream == nil {
		return
	}
	if err := m.stream.Release(); err != nil {
		m.log.Warn(context.Background(), "camera release failed", "error", err)
	}
	m.stream = nil
}

// expect must be called with mu held.
func (m *Machine) expect(screens ...models.Screen) error {
	if slices.Contains(screens, m.screen) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidTransition, m.screen)
}

func (m *Machine) setNotice(kind NoticeKind, msg string) {
	m.notice = &Notice{Kind: kind, Message: msg}
}

// beginSync checks the screen and takes the persistence guard.
func (m *Machine) beginSync(screens ...models.Screen) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(screens...); err != nil {
		return err
	}
	if m.isSyncing {
		return ErrBusy
	}
	m.isSyncing = true
	return nil
}

func (m *Machine) endSync() {
	m.mu.Lock()
	m.isSyncing = false
	m.mu.Unlock()
}

func (m *Machine) currentSession() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// resetWork drops every artifact of the current capture and generation.
func (m *Machine) resetWork() {
	m.captured = models.Image{}
	m.after = models.Image{}
	m.kind = ""
	m.viewMode = models.ViewAfter
	m.style = ""
	m.prompt = ""
	m.spaceID = ""
	m.steps = nil
	m.stepIndex = 0
	m.deadline = time.Time{}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
