package repository

import (
	"errors"

	"pharmalink/internal/domain/entity"
	domainRepo "pharmalink/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileRepository struct{}

func NewProfileRepository() domainRepo.ProfileRepository {
	return &profileRepository{}
}

func (r *profileRepository) EnsureExists(db *gorm.DB, profile *entity.Profile) error {
	if profile.Role == "" {
		profile.Role = entity.RoleClient
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(profile).Error
}

func (r *profileRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Profile, error) {
	var profile entity.Profile
	err := db.Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) UpdateFullName(db *gorm.DB, id uuid.UUID, fullName string) (int64, error) {
	result := db.Model(&entity.Profile{}).Where("id = ?", id).Update("full_name", fullName)
	return result.RowsAffected, result.Error
}

type authUserRepository struct{}

func NewAuthUserRepository() domainRepo.AuthUserRepository {
	return &authUserRepository{}
}

func (r *authUserRepository) Create(db *gorm.DB, user *entity.AuthUser) error {
	return db.Create(user).Error
}

func (r *authUserRepository) FindByPhone(db *gorm.DB, phone string) (*entity.AuthUser, error) {
	var user entity.AuthUser
	err := db.Where("phone = ?", phone).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
