package converter

import (
	"pharmalink/internal/delivery/dto"
	"pharmalink/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func GardeToResponse(g *entity.PharmacyOnDuty) dto.GardeResponse {
	return dto.GardeResponse{
		ID:        g.ID,
		Nom:       g.Nom,
		Adresse:   g.Adresse,
		Quartier:  g.Quartier,
		Telephone: g.Telephone,
		DateDebut: g.DateDebut.Format(dateLayout),
		DateFin:   g.DateFin.Format(dateLayout),
	}
}

func GardesToResponses(gardes []entity.PharmacyOnDuty) []dto.GardeResponse {
	responses := make([]dto.GardeResponse, len(gardes))
	for i := range gardes {
		responses[i] = GardeToResponse(&gardes[i])
	}
	return responses
}

// WeekGardesToResponse wraps the rows of one week with its date bounds.
func WeekGardesToResponse(target entity.WeekTarget, week entity.WeekRange, gardes []entity.PharmacyOnDuty) *dto.WeekGardesResponse {
	return &dto.WeekGardesResponse{
		Week:      string(target),
		DateDebut: week.StartDate().Format(dateLayout),
		DateFin:   week.EndDate().Format(dateLayout),
		Gardes:    GardesToResponses(gardes),
		Total:     len(gardes),
	}
}

func PharmaciesToResponses(pharmacies []entity.Pharmacy) []dto.PharmacyResponse {
	responses := make([]dto.PharmacyResponse, len(pharmacies))
	for i, p := range pharmacies {
		responses[i] = dto.PharmacyResponse{
			ID:        p.ID,
			Nom:       p.Nom,
			Matricule: p.Matricule,
			Quartier:  p.Quartier,
			Actif:     p.Actif,
		}
	}
	return responses
}
