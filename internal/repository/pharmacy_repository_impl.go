package repository

import (
	"time"

	"pharmalink/internal/domain/entity"
	domainRepo "pharmalink/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type pharmacyRepository struct{}

func NewPharmacyRepository() domainRepo.PharmacyRepository {
	return &pharmacyRepository{}
}

func (r *pharmacyRepository) FindActive(db *gorm.DB) ([]entity.Pharmacy, error) {
	var pharmacies []entity.Pharmacy
	err := db.Where("actif = ?", true).Order("nom ASC").Find(&pharmacies).Error
	if err != nil {
		return nil, err
	}
	return pharmacies, nil
}

func (r *pharmacyRepository) FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Pharmacy, error) {
	var pharmacies []entity.Pharmacy
	if len(ids) == 0 {
		return pharmacies, nil
	}
	err := db.Where("id IN ?", ids).Order("nom ASC").Find(&pharmacies).Error
	if err != nil {
		return nil, err
	}
	return pharmacies, nil
}

type pharmacyOnDutyRepository struct{}

func NewPharmacyOnDutyRepository() domainRepo.PharmacyOnDutyRepository {
	return &pharmacyOnDutyRepository{}
}

func (r *pharmacyOnDutyRepository) CreateBatch(db *gorm.DB, rows []entity.PharmacyOnDuty) error {
	if len(rows) == 0 {
		return nil
	}
	return db.Create(&rows).Error
}

func (r *pharmacyOnDutyRepository) FindOverlapping(db *gorm.DB, start, end time.Time) ([]entity.PharmacyOnDuty, error) {
	var rows []entity.PharmacyOnDuty
	err := db.Where("date_debut <= ? AND date_fin >= ?", end, start).
		Order("nom ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *pharmacyOnDutyRepository) FindOnDate(db *gorm.DB, day time.Time) ([]entity.PharmacyOnDuty, error) {
	var rows []entity.PharmacyOnDuty
	err := db.Where("date_debut <= ? AND date_fin >= ?", day, day).
		Order("nom ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *pharmacyOnDutyRepository) DeleteOverlapping(db *gorm.DB, start, end time.Time) (int64, error) {
	result := db.Where("date_debut <= ? AND date_fin >= ?", end, start).Delete(&entity.PharmacyOnDuty{})
	return result.RowsAffected, result.Error
}
