package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, StyleCalmMinimal, s.DefaultStyle)
	assert.Equal(t, 7, s.DefaultFocusMinutes)
	assert.True(t, s.GentleAnimations)
	assert.True(t, s.HapticFeedback)
	assert.False(t, s.LargerText)
	assert.False(t, s.HighContrast)
}

func TestUserSettings_Apply(t *testing.T) {
	style := StyleCompact
	minutes := 10
	off := false

	got := DefaultSettings().Apply(SettingsPatch{DefaultStyle: &style, DefaultFocusMinutes: &minutes, HapticFeedback: &off})

	want := DefaultSettings()
	want.DefaultStyle = StyleCompact
	want.DefaultFocusMinutes = 10
	want.HapticFeedback = false
	assert.Equal(t, want, got)

	assert.Equal(t, DefaultSettings(), DefaultSettings().Apply(SettingsPatch{}))
	assert.True(t, SettingsPatch{}.IsEmpty())
}

func TestSettingsPatch_Validate(t *testing.T) {
	bad := 6
	assert.ErrorIs(t, SettingsPatch{DefaultFocusMinutes: &bad}.Validate(), ErrInvalidSettings)

	style := OrganizingStyle("Loud")
	assert.ErrorIs(t, SettingsPatch{DefaultStyle: &style}.Validate(), ErrInvalidSettings)

	good := 5
	assert.NoError(t, SettingsPatch{DefaultFocusMinutes: &good}.Validate())
}

func TestSession_JSON(t *testing.T) {
	s := Session{UserID: "u1", Email: "a@b.c", DisplayName: "Ann", Settings: DefaultSettings()}
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"defaultStyle":"Calm Minimal"`)

	var back Session
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, s, back)
}
