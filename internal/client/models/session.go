package models

import (
	"errors"
	"fmt"
)

var ErrInvalidSettings = errors.New("invalid settings")

// FocusMinuteOptions are the allowed values of UserSettings.DefaultFocusMinutes.
var FocusMinuteOptions = []int{5, 7, 10}

// Session is the authenticated user context. The cached copy is only a
// projection of the backend profile.
type Session struct {
	UserID      string       `json:"userId"`
	Email       string       `json:"email"`
	DisplayName string       `json:"displayName"`
	Settings    UserSettings `json:"settings"`
}

type UserSettings struct {
	DefaultStyle        OrganizingStyle `json:"defaultStyle"`
	DefaultFocusMinutes int             `json:"defaultFocusMinutes"`
	GentleAnimations    bool            `json:"gentleAnimations"`
	HapticFeedback      bool            `json:"hapticFeedback"`
	LargerText          bool            `json:"largerText"`
	HighContrast        bool            `json:"highContrast"`
}

func DefaultSettings() UserSettings {
	return UserSettings{
		DefaultStyle:        StyleCalmMinimal,
		DefaultFocusMinutes: 7,
		GentleAnimations:    true,
		HapticFeedback:      true,
	}
}

func (s UserSettings) Validate() error {
	if !s.DefaultStyle.Valid() {
		return fmt.Errorf("%w: style %q", ErrInvalidSettings, s.DefaultStyle)
	}
	if !validFocusMinutes(s.DefaultFocusMinutes) {
		return fmt.Errorf("%w: focus minutes %d", ErrInvalidSettings, s.DefaultFocusMinutes)
	}
	return nil
}

func validFocusMinutes(m int) bool {
	for _, v := range FocusMinuteOptions {
		if v == m {
			return true
		}
	}
	return false
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	DefaultStyle        *OrganizingStyle `json:"defaultStyle,omitempty"`
	DefaultFocusMinutes *int             `json:"defaultFocusMinutes,omitempty"`
	GentleAnimations    *bool            `json:"gentleAnimations,omitempty"`
	HapticFeedback      *bool            `json:"hapticFeedback,omitempty"`
	LargerText          *bool            `json:"largerText,omitempty"`
	HighContrast        *bool            `json:"highContrast,omitempty"`
}

func (p SettingsPatch) IsEmpty() bool {
	return p == SettingsPatch{}
}

// Apply returns s with the non-nil fields of p merged in.
func (s UserSettings) Apply(p SettingsPatch) UserSettings {
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

// Validate checks only the fields that are set.
func (p SettingsPatch) Validate() error {
	if p.DefaultStyle != nil && !p.DefaultStyle.Valid() {
		return fmt.Errorf("%w: style %q", ErrInvalidSettings, *p.DefaultStyle)
	}
	if p.DefaultFocusMinutes != nil && !validFocusMinutes(*p.DefaultFocusMinutes) {
		return fmt.Errorf("%w: focus minutes %d", ErrInvalidSettings, *p.DefaultFocusMinutes)
	}
	return nil
}
