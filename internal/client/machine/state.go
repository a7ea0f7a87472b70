package machine

import (
	"time"

	"github.com/dmitrijs2005/ordo/internal/client/models"
)

type NoticeKind string

const (
	NoticeCapability  NoticeKind = "capability"
	NoticeConfig      NoticeKind = "config"
	NoticeQuota       NoticeKind = "quota"
	NoticeAuth        NoticeKind = "auth"
	NoticeGeneration  NoticeKind = "generation"
	NoticePersistence NoticeKind = "persistence"
	NoticeValidation  NoticeKind = "validation"
)

// Notice is a human-readable message attached to the current screen.
// RetryAfter is only set for quota notices that carried a hint.
type Notice struct {
	Kind       NoticeKind
	Message    string
	RetryAfter time.Duration
}

// State is an immutable snapshot for rendering.
type State struct {
	Screen         models.Screen
	Session        *models.Session
	OnboardingPage int

	Captured models.Image
	After    models.Image
	Kind     models.SpaceKind
	ViewMode models.ViewMode
	Style    models.OrganizingStyle
	Prompt   string
	SpaceID  string

	Steps         []models.OrganizingStep
	StepIndex     int
	FocusDeadline time.Time

	Spaces []models.SavedSpace
	Recent []models.SavedSpace

	Notice       *Notice
	IsGenerating bool
	IsSyncing    bool
	Scanning     bool
}

// Visible returns the image the result screen should show for the current
// view mode.
func (s State) Visible() models.Image {
	if s.ViewMode == models.ViewBefore && !s.Captured.IsZero() {
		return s.Captured
	}
	return s.After
}

// CurrentStep returns the focused step, if any.
func (s State) CurrentStep() (models.OrganizingStep, bool) {
	if s.StepIndex < 0 || s.StepIndex >= len(s.Steps) {
		return models.OrganizingStep{}, false
	}
	return s.Steps[s.StepIndex], true
}
