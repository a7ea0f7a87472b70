package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/ordo/internal/common"
)

var (
	Styles             = []string{"Calm Minimal", "Aesthetic", "Practical", "Compact"}
	FocusMinuteOptions = []int32{5, 7, 10}
)

// Settings are the per-user preferences stored with the account.
type Settings struct {
	DefaultStyle        string `json:"defaultStyle"`
	DefaultFocusMinutes int32  `json:"defaultFocusMinutes"`
	GentleAnimations    bool   `json:"gentleAnimations"`
	HapticFeedback      bool   `json:"hapticFeedback"`
	LargerText          bool   `json:"largerText"`
	HighContrast        bool   `json:"highContrast"`
}

func DefaultSettings() Settings {
	return Settings{
		DefaultStyle:        "Calm Minimal",
		DefaultFocusMinutes: 7,
		GentleAnimations:    true,
		HapticFeedback:      true,
	}
}

func (s Settings) Validate() error {
	if !slices.Contains(Styles, s.DefaultStyle) {
		return fmt.Errorf("%w: style %q", common.ErrorValidation, s.DefaultStyle)
	}
	if !slices.Contains(FocusMinuteOptions, s.DefaultFocusMinutes) {
		return fmt.Errorf("%w: focus minutes %d", common.ErrorValidation, s.DefaultFocusMinutes)
	}
	return nil
}

// SettingsPatch is a partial update; nil fields stay unchanged.
type SettingsPatch struct {
	DefaultStyle        *string
	DefaultFocusMinutes *int32
	GentleAnimations    *bool
	HapticFeedback      *bool
	LargerText          *bool
	HighContrast        *bool
}

func (s Settings) Apply(p SettingsPatch) Settings {
	if p.DefaultStyle != nil {
		s.DefaultStyle = *p.DefaultStyle
	}
	if p.DefaultFocusMinutes != nil {
		s.DefaultFocusMinutes = *p.DefaultFocusMinutes
	}
	if p.GentleAnimations != nil {
		s.GentleAnimations = *p.GentleAnimations
	}
	if p.HapticFeedback != nil {
		s.HapticFeedback = *p.HapticFeedback
	}
	if p.LargerText != nil {
		s.LargerText = *p.LargerText
	}
	if p.HighContrast != nil {
		s.HighContrast = *p.HighContrast
	}
	return s
}

type User struct {
	ID        string
	Email     string
	Name      string
	Salt      []byte
	Verifier  []byte
	Settings  Settings
	CreatedAt time.Time
}
