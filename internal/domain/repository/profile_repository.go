package repository

import (
	"pharmalink/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	// EnsureExists inserts the profile unless a row with the same id already exists.
	EnsureExists(db *gorm.DB, profile *entity.Profile) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Profile, error)
	UpdateFullName(db *gorm.DB, id uuid.UUID, fullName string) (int64, error)
}

type AuthUserRepository interface {
	Create(db *gorm.DB, user *entity.AuthUser) error
	FindByPhone(db *gorm.DB, phone string) (*entity.AuthUser, error)
}
