package repository

import (
	"pharmalink/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.AuditLog, error)
}
