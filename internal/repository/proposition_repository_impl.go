package repository

import (
	"pharmalink/internal/domain/entity"
	domainRepo "pharmalink/internal/domain/repository"

	"gorm.io/gorm"
)

type propositionRepository struct{}

func NewPropositionRepository() domainRepo.PropositionRepository {
	return &propositionRepository{}
}

func (r *propositionRepository) CreateBatch(db *gorm.DB, propositions []entity.Proposition) error {
	if len(propositions) == 0 {
		return nil
	}
	return db.Create(&propositions).Error
}
