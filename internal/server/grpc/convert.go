package grpc

import (
	pb "github.com/dmitrijs2005/ordo/internal/proto"
	"github.com/dmitrijs2005/ordo/internal/server/models"
)

func imageToPB(i models.Image) *pb.Image {
	if i.IsZero() {
		return nil
	}
	return &pb.Image{MimeType: i.MimeType, Data: i.Data}
}

func imageFromPB(i *pb.Image) models.Image {
	if i == nil {
		return models.Image{}
	}
	return models.Image{MimeType: i.MimeType, Data: i.Data}
}

func profileToPB(u *models.User) *pb.Profile {
	return &pb.Profile{
		UserId: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Settings: &pb.Settings{
			DefaultStyle:        u.Settings.DefaultStyle,
			DefaultFocusMinutes: u.Settings.DefaultFocusMinutes,
			GentleAnimations:    u.Settings.GentleAnimations,
			HapticFeedback:      u.Settings.HapticFeedback,
			LargerText:          u.Settings.LargerText,
			HighContrast:        u.Settings.HighContrast,
		},
	}
}

func patchFromPB(p *pb.SettingsPatch) models.SettingsPatch {
	if p == nil {
		return models.SettingsPatch{}
	}
	return models.SettingsPatch{
		DefaultStyle:        p.DefaultStyle,
		DefaultFocusMinutes: p.DefaultFocusMinutes,
		GentleAnimations:    p.GentleAnimations,
		HapticFeedback:      p.HapticFeedback,
		LargerText:          p.LargerText,
		HighContrast:        p.HighContrast,
	}
}

func spaceToPB(c *models.SpaceContent) *pb.Space {
	return &pb.Space{
		Id:          c.ID,
		OwnerId:     c.OwnerID,
		Name:        c.Name,
		CreatedDate: c.CreatedDate,
		Kind:        c.Kind,
		Note:        c.Note,
		AfterImage:  imageToPB(c.After),
		BeforeImage: imageToPB(c.Before),
	}
}

func spaceFromPB(s *pb.Space) *models.SpaceContent {
	return &models.SpaceContent{
		Space: models.Space{
			ID:          s.Id,
			Name:        s.Name,
			CreatedDate: s.CreatedDate,
			Kind:        s.Kind,
			Note:        s.Note,
		},
		After:  imageFromPB(s.AfterImage),
		Before: imageFromPB(s.BeforeImage),
	}
}
