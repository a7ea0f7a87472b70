package machine

import (
	"time"

	"github.com/dmitrijs2005/ordo/internal/client/models"
)

// ToggleView flips the result screen between the after and the before
// image. Without a before image it stays on after.
func (m *Machine) ToggleView() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(models.ScreenResult); err != nil {
		return err
	}
	if m.viewMode == models.ViewAfter && !m.captured.IsZero() {
		m.viewMode = models.ViewBefore
	} else {
		m.viewMode = models.ViewAfter
	}
	return nil
}

func (m *Machine) StartOrganizing() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(models.ScreenResult); err != nil {
		return err
	}
	if len(m.steps) == 0 {
		return nil
	}
	m.stepIndex = 0
	m.setScreen(models.ScreenStepFocus)
	return nil
}

func (m *Machine) NextStep() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(models.ScreenStepFocus); err != nil {
		return err
	}
	if m.stepIndex < len(m.steps)-1 {
		m.stepIndex++
		return nil
	}
	m.setScreen(models.ScreenCompletion)
	return nil
}

func (m *Machine) PrevStep() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(models.ScreenStepFocus); err != nil {
		return err
	}
	if m.stepIndex == 0 {
		m.setScreen(models.ScreenResult)
		return nil
	}
	m.stepIndex--
	return nil
}

// StartFocus opens the focus timer for the current step, lasting the
// user's default focus minutes.
func (m *Machine) StartFocus() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(models.ScreenStepFocus); err != nil {
		return err
	}

	minutes := models.DefaultSettings().DefaultFocusMinutes
	if m.session != nil && m.session.Settings.DefaultFocusMinutes > 0 {
		minutes = m.session.Settings.DefaultFocusMinutes
	}
	m.deadline = m.now().Add(time.Duration(minutes) * time.Minute)
	m.setScreen(models.ScreenFocusTimer)
	return nil
}

// EndFocus returns to the step the timer was started from.
func (m *Machine) EndFocus() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expect(models.ScreenFocusTimer); err != nil {
		return err
	}
	m.deadline = time.Time{}
	m.setScreen(models.ScreenStepFocus)
	return nil
}
