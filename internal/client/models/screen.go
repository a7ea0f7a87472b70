package models

type Screen string

const (
	ScreenSplash         Screen = "splash"
	ScreenAuth           Screen = "auth"
	ScreenOnboarding     Screen = "onboarding"
	ScreenHome           Screen = "home"
	ScreenScan           Screen = "scan"
	ScreenConfirmation   Screen = "confirmation"
	ScreenStyleSelection Screen = "style-selection"
	ScreenProcessing     Screen = "processing"
	ScreenResult         Screen = "result"
	ScreenStepFocus      Screen = "step-focus"
	ScreenFocusTimer     Screen = "focus-timer"
	ScreenCompletion     Screen = "completion"
	ScreenSaveSpace      Screen = "save-space"
	ScreenLibrary        Screen = "library"
	ScreenSettings       Screen = "settings"
	ScreenInspiration    Screen = "inspiration"
)

func (s Screen) String() string { return string(s) }

// ViewMode selects which image the result screen shows.
type ViewMode string

const (
	ViewAfter  ViewMode = "after"
	ViewBefore ViewMode = "before"
)

type OnboardingPage struct {
	Title       string
	Description string
}

func OnboardingPages() []OnboardingPage {
	return []OnboardingPage{
		{Title: "Scan your space", Description: "Use the camera to let Ordo understand your environment."},
		{Title: "Order, revealed", Description: "AI helps you find the hidden potential in your mess."},
		{Title: "Guided steps, calmly", Description: "Follow simple, non-urgent instructions to restore peace."},
	}
}
