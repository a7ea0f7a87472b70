package machine

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/client/persistence"
)

// Start leaves the splash screen after the splash delay: to home when a
// cached session is still accepted by the backend, to auth otherwise.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.Lock()
	err := m.expect(models.ScreenSplash)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	if err := sleep(ctx, m.splash); err != nil {
		return err
	}

	sess, err := m.cache.Load(ctx)
	if err != nil {
		m.log.Warn(ctx, "cached session unreadable", "error", err)
		sess = nil
	}

	revoked := false
	if sess != nil {
		sess, revoked = m.restore(ctx, sess)
	}
	if sess != nil {
		// Load failures leave the library empty; the library logs them.
		_ = m.library.Load(ctx, sess.UserID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(models.ScreenSplash); err != nil {
		return err
	}
	if sess == nil {
		m.setScreen(models.ScreenAuth)
		if revoked {
			m.setNotice(NoticeAuth, "Your session has ended. Please sign in again.")
		}
		return nil
	}
	m.session = sess
	m.setScreen(models.ScreenHome)
	return nil
}

// restore replaces the cached session with the backend's profile. A revoked
// session is dropped from the cache; when the backend cannot be reached the
// cached copy is kept.
func (m *Machine) restore(ctx context.Context, cached *models.Session) (*models.Session, bool) {
	sess, err := m.backend.Restore(ctx, cached)
	switch {
	case errors.Is(err, persistence.ErrSessionRevoked):
		m.log.Info(ctx, "cached session rejected", "user_id", cached.UserID)
		if err := m.cache.Clear(ctx); err != nil {
			m.log.Warn(ctx, "session cache clear failed", "error", err)
		}
		return nil, true
	case err != nil:
		m.log.Warn(ctx, "session check failed, using cached session", "error", err)
		return cached, false
	}

	if err := m.cache.Save(ctx, sess); err != nil {
		m.log.Warn(ctx, "session cache write failed", "error", err)
	}
	return sess, false
}

func validateCredentials(email, name, password string, signUp bool) string {
	switch {
	case !strings.Contains(strings.TrimSpace(email), "@"):
		return "Enter a valid email address."
	case password == "":
		return "Enter your password."
	case signUp && strings.TrimSpace(name) == "":
		return "Enter your name."
	}
	return ""
}

func (m *Machine) SignUp(ctx context.Context, email, name, password string) error {
	return m.authenticate(ctx, email, name, password, true)
}

func (m *Machine) SignIn(ctx context.Context, email, password string) error {
	return m.authenticate(ctx, email, "", password, false)
}

func (m *Machine) authenticate(ctx context.Context, email, name, password string, signUp bool) error {
	if msg := validateCredentials(email, name, password, signUp); msg != "" {
		m.mu.Lock()
		defer m.mu.Unlock()
		if err := m.expect(models.ScreenAuth); err != nil {
			return err
		}
		m.setNotice(NoticeValidation, msg)
		return ErrValidation
	}

	if err := m.beginSync(models.ScreenAuth); err != nil {
		return err
	}
	defer m.endSync()

	var (
		sess *models.Session
		err  error
	)
	if signUp {
		sess, err = m.backend.SignUp(ctx, email, strings.TrimSpace(name), []byte(password))
	} else {
		sess, err = m.backend.SignIn(ctx, email, []byte(password))
	}
	if err != nil {
		m.log.Info(ctx, "authentication failed", "error", err)
		m.mu.Lock()
		m.setNotice(NoticeAuth, authMessage(err))
		m.mu.Unlock()
		return err
	}

	if err := m.cache.Save(ctx, sess); err != nil {
		m.log.Warn(ctx, "session cache write failed", "error", err)
	}
	_ = m.library.Load(ctx, sess.UserID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = sess
	m.page = 0
	m.setScreen(models.ScreenOnboarding)
	return nil
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, persistence.ErrInvalidCredentials):
		return "Email or password is incorrect."
	case errors.Is(err, persistence.ErrEmailTaken):
		return "An account with this email already exists."
	default:
		return "Could not reach your account. Please try again."
	}
}

// AdvanceOnboarding moves to the next onboarding page, or home after the
// last one.
func (m *Machine) AdvanceOnboarding() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(models.ScreenOnboarding); err != nil {
		return err
	}
	if m.page < len(models.OnboardingPages())-1 {
		m.page++
		return nil
	}
	m.setScreen(models.ScreenHome)
	return nil
}

func (m *Machine) SkipOnboarding() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(models.ScreenOnboarding); err != nil {
		return err
	}
	m.setScreen(models.ScreenHome)
	return nil
}

// UpdateSettings writes patch through the backend and only then reflects
// it in the session and its cache.
func (m *Machine) UpdateSettings(ctx context.Context, patch models.SettingsPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	if err := patch.Validate(); err != nil {
		m.mu.Lock()
		defer m.mu.Unlock()
		if err := m.expect(models.ScreenSettings); err != nil {
			return err
		}
		m.setNotice(NoticeValidation, "That setting value is not supported.")
		return err
	}

	sess := m.currentSession()
	if sess == nil {
		return ErrNotSignedIn
	}

	if err := m.beginSync(models.ScreenSettings); err != nil {
		return err
	}
	defer m.endSync()

	settings, err := m.backend.UpdateSettings(ctx, sess.UserID, patch)
	if err != nil {
		m.log.Warn(ctx, "settings update failed", "error", err)
		m.mu.Lock()
		m.setNotice(NoticePersistence, "Could not save your settings.")
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	m.notice = nil
	if m.session != nil {
		m.session.Settings = settings
		s := *m.session
		sess = &s
	}
	m.mu.Unlock()

	if err := m.cache.Save(ctx, sess); err != nil {
		m.log.Warn(ctx, "session cache write failed", "error", err)
	}
	return nil
}

// SignOut always ends on auth; backend and cache failures are logged.
func (m *Machine) SignOut(ctx context.Context) error {
	if err := m.beginSync(models.ScreenSettings); err != nil {
		return err
	}
	defer m.endSync()

	if err := m.backend.SignOut(ctx); err != nil {
		m.log.Warn(ctx, "backend sign-out failed", "error", err)
	}
	m.forgetSession(ctx)
	return nil
}

// DeleteAccount removes the account with all of its spaces, then forgets
// the session.
func (m *Machine) DeleteAccount(ctx context.Context) error {
	sess := m.currentSession()
	if sess == nil {
		return ErrNotSignedIn
	}

	if err := m.beginSync(models.ScreenSettings); err != nil {
		return err
	}
	defer m.endSync()

	if err := m.backend.DeleteAccount(ctx, sess.UserID); err != nil {
		m.log.Warn(ctx, "account deletion failed", "error", err)
		m.mu.Lock()
		m.setNotice(NoticePersistence, "Could not delete your account.")
		m.mu.Unlock()
		return err
	}
	m.forgetSession(ctx)
	return nil
}

func (m *Machine) forgetSession(ctx context.Context) {
	if err := m.cache.Clear(ctx); err != nil {
		m.log.Warn(ctx, "session cache clear failed", "error", err)
	}
	m.library.Clear()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	m.resetWork()
	m.setScreen(models.ScreenAuth)
}
