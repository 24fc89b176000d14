package repository

import (
	"errors"

	"pharmalink/internal/domain/entity"
	domainRepo "pharmalink/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type demandeRepository struct{}

func NewDemandeRepository() domainRepo.DemandeRepository {
	return &demandeRepository{}
}

func (r *demandeRepository) Create(db *gorm.DB, demande *entity.Demande) error {
	return db.Omit("Client", "Propositions").Create(demande).Error
}

func (r *demandeRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Demande, error) {
	var demande entity.Demande
	err := withRelations(db).Where("id = ?", id).First(&demande).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &demande, nil
}

// FindAll returns demandes joined with their client profile and propositions,
// newest first.
func (r *demandeRepository) FindAll(db *gorm.DB, filter entity.DemandeFilter) ([]entity.Demande, error) {
	var demandes []entity.Demande
	query := withRelations(db)

	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	err := query.Order("created_at DESC").Find(&demandes).Error
	if err != nil {
		return nil, err
	}
	return demandes, nil
}

func (r *demandeRepository) CountByStatus(db *gorm.DB, clientID *uuid.UUID) (entity.DemandeStats, error) {
	type row struct {
		Status entity.DemandeStatus
		Count  int
	}
	var rows []row

	query := db.Model(&entity.Demande{}).Select("status, COUNT(*) as count")
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return entity.DemandeStats{}, err
	}

	var stats entity.DemandeStats
	for _, r := range rows {
		switch r.Status {
		case entity.DemandeStatusEnAttente:
			stats.EnAttente = r.Count
		case entity.DemandeStatusEnCours:
			stats.EnCours = r.Count
		case entity.DemandeStatusTraite:
			stats.Traite = r.Count
		default:
			continue
		}
		stats.Total += r.Count
	}
	return stats, nil
}

// MarkInProgress only matches pending rows so two agents cannot both claim one demande.
// Returns affected rows: 1 = claimed, 0 = missing or no longer pending.
func (r *demandeRepository) MarkInProgress(db *gorm.DB, id uuid.UUID, agentID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Demande{}).
		Where("id = ? AND status = ?", id, entity.DemandeStatusEnAttente).
		Updates(map[string]interface{}{
			"status":   entity.DemandeStatusEnCours,
			"agent_id": agentID,
		})
	return result.RowsAffected, result.Error
}

// MarkTreated closes a demande that is not treated yet. A still-pending demande
// also gets its agent assigned here, since nobody picked it up before.
func (r *demandeRepository) MarkTreated(db *gorm.DB, id uuid.UUID, agentID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Demande{}).
		Where("id = ? AND status IN ?", id, []entity.DemandeStatus{entity.DemandeStatusEnAttente, entity.DemandeStatusEnCours}).
		Updates(map[string]interface{}{
			"status":   entity.DemandeStatusTraite,
			"agent_id": gorm.Expr("COALESCE(agent_id, ?)", agentID),
		})
	return result.RowsAffected, result.Error
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Client").
		Preload("Propositions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		})
}
