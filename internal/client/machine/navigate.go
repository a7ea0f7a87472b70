package machine

import (
	"time"

	"github.com/dmitrijs2005/ordo/internal/client/models"
)

// Navigate jumps directly to one of the hub screens. Scan is reached with
// StartScan instead; result only while there is something to show.
func (m *Machine) Navigate(to models.Screen) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isGenerating {
		return ErrBusy
	}
	if m.session == nil {
		return ErrNotSignedIn
	}
	switch m.screen {
	case models.ScreenSplash, models.ScreenAuth:
		return ErrInvalidTransition
	}

	switch to {
	case models.ScreenHome, models.ScreenLibrary, models.ScreenSettings, models.ScreenInspiration:
	case models.ScreenResult:
		if m.after.IsZero() {
			return ErrInvalidTransition
		}
	default:
		return ErrInvalidTransition
	}

	if m.screen == to {
		return nil
	}
	if m.screen == models.ScreenFocusTimer {
		m.deadline = time.Time{}
	}
	m.setScreen(to)
	return nil
}
