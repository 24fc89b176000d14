package dto

import (
	"time"

	"pharmalink/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateDemandeRequest struct {
	MedicamentNom string  `json:"medicament_nom" validate:"required,max=255"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
}

type ListDemandesRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=en_attente en_cours traite"`
	Limit  int    `json:"limit" validate:"gte=0,lte=500"`
}

// PropositionCandidate is one offer row as typed by an agent. Invalid rows
// are dropped by the usecase, so fields carry no validation tags.
type PropositionCandidate struct {
	PharmacieNom string  `json:"pharmacie_nom"`
	Prix         string  `json:"prix"`
	Quartier     string  `json:"quartier"`
	Adresse      *string `json:"adresse"`
	Telephone    *string `json:"telephone"`
}

type CompleteDemandeRequest struct {
	Propositions []PropositionCandidate `json:"propositions"`
}

// Response DTOs

type ClientSummary struct {
	Phone    string  `json:"phone"`
	FullName *string `json:"full_name"`
}

type PropositionResponse struct {
	ID           uuid.UUID       `json:"id"`
	DemandeID    uuid.UUID       `json:"demande_id"`
	PharmacieNom string          `json:"pharmacie_nom"`
	Prix         decimal.Decimal `json:"prix"`
	Quartier     string          `json:"quartier"`
	Adresse      *string         `json:"adresse"`
	Telephone    *string         `json:"telephone"`
	Disponible   bool            `json:"disponible"`
	CreatedAt    time.Time       `json:"created_at"`
}

type DemandeResponse struct {
	ID            uuid.UUID             `json:"id"`
	ClientID      uuid.UUID             `json:"client_id"`
	AgentID       *uuid.UUID            `json:"agent_id"`
	MedicamentNom string                `json:"medicament_nom"`
	Description   *string               `json:"description"`
	Status        string                `json:"status"`
	Client        *ClientSummary        `json:"client,omitempty"`
	Propositions  []PropositionResponse `json:"propositions"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

type DemandeListResponse struct {
	Demandes []DemandeResponse   `json:"demandes"`
	Stats    entity.DemandeStats `json:"stats"`
	Total    int                 `json:"total"`
}

type CompleteDemandeResponse struct {
	Demande  *DemandeResponse `json:"demande"`
	Inserted int              `json:"inserted"`
	Dropped  int              `json:"dropped"`
}
