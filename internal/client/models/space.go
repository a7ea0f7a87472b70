package models

import "strings"

// SpaceKind tells whether a space came from a real photo or a text prompt.
type SpaceKind string

const (
	KindScan  SpaceKind = "scan"
	KindDream SpaceKind = "dream"
)

// SavedSpace is a persisted before/after result. ID is creation-time ordered
// and unique within the owner's collection. BeforeImage is absent for dream
// spaces.
type SavedSpace struct {
	ID          string
	OwnerID     string
	Name        string
	CreatedDate string
	AfterImage  Image
	BeforeImage Image
	Kind        SpaceKind
	Note        string
}

// SpacePatch is a partial update. Nil fields and zero images are left
// unchanged; a non-nil empty Note clears the note. A blank Name is never
// applied.
type SpacePatch struct {
	Name        *string
	Note        *string
	AfterImage  Image
	BeforeImage Image
}

func (p SpacePatch) IsEmpty() bool {
	return p.Name == nil && p.Note == nil && p.AfterImage.IsZero() && p.BeforeImage.IsZero()
}

func (s SavedSpace) Apply(p SpacePatch) SavedSpace {
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		s.Name = *p.Name
	}
	if p.Note != nil {
		s.Note = *p.Note
	}
	if !p.AfterImage.IsZero() {
		s.AfterImage = p.AfterImage
	}
	if !p.BeforeImage.IsZero() {
		s.BeforeImage = p.BeforeImage
	}
	return s
}
