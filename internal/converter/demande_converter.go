package converter

import (
	"pharmalink/internal/delivery/dto"
	"pharmalink/internal/domain/entity"
)

// DemandeToResponse converts a Demande entity to DemandeResponse DTO
func DemandeToResponse(demande *entity.Demande) *dto.DemandeResponse {
	if demande == nil {
		return nil
	}

	response := &dto.DemandeResponse{
		ID:            demande.ID,
		ClientID:      demande.ClientID,
		AgentID:       demande.AgentID,
		MedicamentNom: demande.MedicamentNom,
		Description:   demande.Description,
		Status:        string(demande.Status),
		Propositions:  PropositionsToResponses(demande.Propositions),
		CreatedAt:     demande.CreatedAt,
		UpdatedAt:     demande.UpdatedAt,
	}

	// Include client info if preloaded
	if demande.Client != nil {
		response.Client = &dto.ClientSummary{
			Phone:    demande.Client.Phone,
			FullName: demande.Client.FullName,
		}
	}

	return response
}

// DemandesToResponses converts a slice of Demande entities to slice of DemandeResponse DTOs
func DemandesToResponses(demandes []entity.Demande) []dto.DemandeResponse {
	responses := make([]dto.DemandeResponse, len(demandes))
	for i := range demandes {
		responses[i] = *DemandeToResponse(&demandes[i])
	}
	return responses
}

// PropositionsToResponses never returns nil so the JSON carries an empty array.
func PropositionsToResponses(propositions []entity.Proposition) []dto.PropositionResponse {
	responses := make([]dto.PropositionResponse, len(propositions))
	for i, p := range propositions {
		responses[i] = dto.PropositionResponse{
			ID:           p.ID,
			DemandeID:    p.DemandeID,
			PharmacieNom: p.PharmacieNom,
			Prix:         p.Prix,
			Quartier:     p.Quartier,
			Adresse:      p.Adresse,
			Telephone:    p.Telephone,
			Disponible:   p.Disponible,
			CreatedAt:    p.CreatedAt,
		}
	}
	return responses
}
