package repository

import (
	"pharmalink/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DemandeRepository interface {
	Create(db *gorm.DB, demande *entity.Demande) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Demande, error)
	FindAll(db *gorm.DB, filter entity.DemandeFilter) ([]entity.Demande, error)
	CountByStatus(db *gorm.DB, clientID *uuid.UUID) (entity.DemandeStats, error)
	// MarkInProgress moves a pending demande to en_cours. Returns affected rows.
	MarkInProgress(db *gorm.DB, id uuid.UUID, agentID uuid.UUID) (int64, error)
	// MarkTreated moves a pending or in-progress demande to traite. Returns affected rows.
	MarkTreated(db *gorm.DB, id uuid.UUID, agentID uuid.UUID) (int64, error)
}

type PropositionRepository interface {
	CreateBatch(db *gorm.DB, propositions []entity.Proposition) error
}
