package repository

import (
	"time"

	"pharmalink/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PharmacyRepository interface {
	FindActive(db *gorm.DB) ([]entity.Pharmacy, error)
	FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Pharmacy, error)
}

type PharmacyOnDutyRepository interface {
	CreateBatch(db *gorm.DB, rows []entity.PharmacyOnDuty) error
	// FindOverlapping returns rows whose [date_debut, date_fin] intersects [start, end].
	FindOverlapping(db *gorm.DB, start, end time.Time) ([]entity.PharmacyOnDuty, error)
	FindOnDate(db *gorm.DB, day time.Time) ([]entity.PharmacyOnDuty, error)
	DeleteOverlapping(db *gorm.DB, start, end time.Time) (int64, error)
}
