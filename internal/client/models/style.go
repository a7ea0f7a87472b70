package models

import (
	"errors"
	"strings"
)

var ErrUnknownStyle = errors.New("unknown organizing style")

// OrganizingStyle is one of the four fixed decluttering policies.
type OrganizingStyle string

const (
	StyleCalmMinimal OrganizingStyle = "Calm Minimal"
	StyleAesthetic   OrganizingStyle = "Aesthetic"
	StylePractical   OrganizingStyle = "Practical"
	StyleCompact     OrganizingStyle = "Compact"
)

type styleInfo struct {
	directive   string
	description string
}

var styles = map[OrganizingStyle]styleInfo{
	StyleCalmMinimal: {
		directive:   "Sparse surfaces, hidden storage, neutral tones, extreme decluttering.",
		description: "Sparse surfaces, hidden storage, neutral tones.",
	},
	StyleAesthetic: {
		directive:   "Curated displays, balanced colors, intentional arrangement of decorative objects.",
		description: "Curated displays, balanced colors, intentional vibes.",
	},
	StylePractical: {
		directive:   "Efficiency focused, items grouped by utility, labels where appropriate, visible but tidy storage.",
		description: "Efficiency focused, easy access, durable systems.",
	},
	StyleCompact: {
		directive:   "Maximum usage of vertical space, nested items, minimal visual bulk.",
		description: "Space-saving hacks for smaller living quarters.",
	},
}

// Styles lists the styles in picker order.
func Styles() []OrganizingStyle {
	return []OrganizingStyle{StyleCalmMinimal, StyleAesthetic, StylePractical, StyleCompact}
}

func (s OrganizingStyle) Valid() bool {
	_, ok := styles[s]
	return ok
}

// Directive is the arrangement policy sent to the image model.
func (s OrganizingStyle) Directive() string {
	return styles[s].directive
}

// Description is the short text shown next to the style in the picker.
func (s OrganizingStyle) Description() string {
	return styles[s].description
}

// ParseStyle accepts the canonical name in any case, with spaces, dashes or
// underscores ("calm-minimal"), or the first word alone ("calm").
func ParseStyle(v string) (OrganizingStyle, error) {
	norm := strings.ToLower(strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(v)))
	if norm == "" {
		return "", ErrUnknownStyle
	}
	for _, s := range Styles() {
		name := strings.ToLower(string(s))
		if norm == name || strings.HasPrefix(name, norm+" ") {
			return s, nil
		}
	}
	return "", ErrUnknownStyle
}
