package client

import (
	"github.com/dmitrijs2005/ordo/internal/client/models"
	pb "github.com/dmitrijs2005/ordo/internal/proto"
)

func imageToPB(i models.Image) *pb.Image {
	if i.IsZero() {
		return nil
	}
	return &pb.Image{MimeType: i.MIMEType, Data: i.Data}
}

func imageFromPB(i *pb.Image) models.Image {
	if i == nil {
		return models.Image{}
	}
	return models.Image{MIMEType: i.MimeType, Data: i.Data}
}

func settingsFromPB(s *pb.Settings) models.UserSettings {
	if s == nil {
		return models.DefaultSettings()
	}
	return models.UserSettings{
		DefaultStyle:        models.OrganizingStyle(s.DefaultStyle),
		DefaultFocusMinutes: int(s.DefaultFocusMinutes),
		GentleAnimations:    s.GentleAnimations,
		HapticFeedback:      s.HapticFeedback,
		LargerText:          s.LargerText,
		HighContrast:        s.HighContrast,
	}
}

func patchToPB(p models.SettingsPatch) *pb.SettingsPatch {
	out := &pb.SettingsPatch{
		GentleAnimations: p.GentleAnimations,
		HapticFeedback:   p.HapticFeedback,
		LargerText:       p.LargerText,
		HighContrast:     p.HighContrast,
	}
	if p.DefaultStyle != nil {
		v := string(*p.DefaultStyle)
		out.DefaultStyle = &v
	}
	if p.DefaultFocusMinutes != nil {
		v := int32(*p.DefaultFocusMinutes)
		out.DefaultFocusMinutes = &v
	}
	return out
}

func sessionFromPB(p *pb.Profile) *models.Session {
	if p == nil {
		return nil
	}
	return &models.Session{
		UserID:      p.UserId,
		Email:       p.Email,
		DisplayName: p.Name,
		Settings:    settingsFromPB(p.Settings),
	}
}

func spaceToPB(s models.SavedSpace) *pb.Space {
	return &pb.Space{
		Id:          s.ID,
		OwnerId:     s.OwnerID,
		Name:        s.Name,
		CreatedDate: s.CreatedDate,
		Kind:        string(s.Kind),
		Note:        s.Note,
		AfterImage:  imageToPB(s.AfterImage),
		BeforeImage: imageToPB(s.BeforeImage),
	}
}

func spaceFromPB(s *pb.Space) models.SavedSpace {
	return models.SavedSpace{
		ID:          s.Id,
		OwnerID:     s.OwnerId,
		Name:        s.Name,
		CreatedDate: s.CreatedDate,
		Kind:        models.SpaceKind(s.Kind),
		Note:        s.Note,
		AfterImage:  imageFromPB(s.AfterImage),
		BeforeImage: imageFromPB(s.BeforeImage),
	}
}
