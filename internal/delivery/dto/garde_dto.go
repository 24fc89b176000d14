package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type DefineWeekRequest struct {
	PharmacyIDs []uuid.UUID `json:"pharmacy_ids"`
	Week        string      `json:"week" validate:"omitempty,oneof=current next"`
	// Replace confirms overwriting rows already defined for the week.
	Replace bool `json:"replace"`
}

// Response DTOs

type GardeResponse struct {
	ID        uuid.UUID `json:"id"`
	Nom       string    `json:"nom"`
	Adresse   string    `json:"adresse"`
	Quartier  string    `json:"quartier"`
	Telephone string    `json:"telephone"`
	DateDebut string    `json:"date_debut"`
	DateFin   string    `json:"date_fin"`
}

type WeekGardesResponse struct {
	Week      string          `json:"week,omitempty"`
	DateDebut string          `json:"date_debut"`
	DateFin   string          `json:"date_fin"`
	Gardes    []GardeResponse `json:"gardes"`
	Total     int             `json:"total"`
}

type DeleteWeekResponse struct {
	Deleted int64 `json:"deleted"`
}

type PharmacyResponse struct {
	ID        uuid.UUID `json:"id"`
	Nom       string    `json:"nom"`
	Matricule string    `json:"matricule"`
	Quartier  string    `json:"quartier"`
	Actif     bool      `json:"actif"`
}

type PharmacyListResponse struct {
	Pharmacies []PharmacyResponse `json:"pharmacies"`
	Total      int                `json:"total"`
}
