package converter

import (
	"pharmalink/internal/delivery/dto"
	"pharmalink/internal/domain/entity"
)

// ProfileToResponse converts a Profile entity to ProfileResponse DTO
func ProfileToResponse(profile *entity.Profile) *dto.ProfileResponse {
	if profile == nil {
		return nil
	}

	return &dto.ProfileResponse{
		ID:        profile.ID,
		Phone:     profile.Phone,
		Role:      string(profile.Role),
		FullName:  profile.FullName,
		Onboarded: profile.IsOnboarded(),
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}
