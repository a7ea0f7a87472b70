package cli

import (
	"bufio"
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/ordo/internal/client/machine"
	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/logging"
)

type Mode string

const (
	ModeLocal   Mode = "local"
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// Machine is the part of machine.Machine the REPL drives.
type Machine interface {
	State() machine.State
	Start(ctx context.Context) error

	SignUp(ctx context.Context, email, name, password string) error
	SignIn(ctx context.Context, email, password string) error
	AdvanceOnboarding() error
	SkipOnboarding() error

	StartScan(ctx context.Context) error
	Shutter(ctx context.Context) error
	Retake(ctx context.Context) error
	ConfirmCapture() error

	PickStyle(ctx context.Context, style models.OrganizingStyle) error
	OpenInspiration() error
	Imagine(ctx context.Context, prompt string) error

	ToggleView() error
	StartOrganizing() error
	NextStep() error
	PrevStep() error
	StartFocus() error
	EndFocus() error

	RequestSave() error
	ConfirmSave(ctx context.Context, name string) error
	QuickSave(ctx context.Context) error
	OpenSpace(id string) error
	RenameSpace(ctx context.Context, id, name string) error
	EditNote(ctx context.Context, id, note string) error
	DeleteSpace(ctx context.Context, id string) error

	Navigate(to models.Screen) error
	UpdateSettings(ctx context.Context, patch models.SettingsPatch) error
	SignOut(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

// Pinger reports whether the account server is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	m      Machine
	pinger Pinger
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	mode atomic.Value
}

// NewApp builds the REPL around m. pinger may be nil for the local backend.
func NewApp(m Machine, pinger Pinger, in io.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.Discard()
	}
	a := &App{
		m:      m,
		pinger: pinger,
		log:    log.With("module", "cli"),
		reader: bufio.NewReader(in),
		out:    out,
		now:    time.Now,
	}
	if pinger == nil {
		a.mode.Store(ModeLocal)
	} else {
		a.mode.Store(ModeOnline)
	}
	return a
}

// Run shows the splash screen, then serves commands until the input ends
// or the user exits.
func (a *App) Run(ctx context.Context, pingInterval time.Duration) error {
	a.render(a.m.State())
	if err := a.m.Start(ctx); err != nil {
		return err
	}
	a.render(a.m.State())

	if a.pinger != nil && pingInterval > 0 {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.StartOnlineStatusWatcher(watchCtx, pingInterval)
	}

	runREPL(ctx, a, a.reader)
	return nil
}

func (a *App) Mode() Mode {
	return a.mode.Load().(Mode)
}

func (a *App) setMode(mode Mode) {
	if a.mode.Swap(mode) != mode {
		a.log.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// prompt between online and offline.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.pinger.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) prompt() string {
	st := a.m.State()
	s := string(st.Screen)
	if st.Session != nil {
		s = st.Session.DisplayName + " " + s
	}
	if mode := a.Mode(); mode != ModeLocal {
		s += " " + string(mode)
	}
	return "ordo (" + s + ")> "
}
