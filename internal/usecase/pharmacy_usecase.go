package usecase

import (
	"context"

	"pharmalink/internal/converter"
	"pharmalink/internal/delivery/dto"
	"pharmalink/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PharmacyUsecase interface {
	ListActive(ctx context.Context) (*dto.PharmacyListResponse, error)
}

type pharmacyUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	pharmacyRepo repository.PharmacyRepository
}

func NewPharmacyUsecase(db *gorm.DB, log *logrus.Logger, pharmacyRepo repository.PharmacyRepository) PharmacyUsecase {
	return &pharmacyUsecase{
		db:           db,
		log:          log,
		pharmacyRepo: pharmacyRepo,
	}
}

func (u *pharmacyUsecase) ListActive(ctx context.Context) (*dto.PharmacyListResponse, error) {
	pharmacies, err := u.pharmacyRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find active pharmacies: %+v", err)
		return nil, err
	}

	return &dto.PharmacyListResponse{
		Pharmacies: converter.PharmaciesToResponses(pharmacies),
		Total:      len(pharmacies),
	}, nil
}
