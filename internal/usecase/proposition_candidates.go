package usecase

import (
	"regexp"
	"strings"

	"pharmalink/internal/delivery/dto"
	"pharmalink/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidPropositions keeps the candidates that have a pharmacy name, a
// non-negative numeric price and a neighborhood, and returns them as offers of
// demandeID. Everything else is dropped; the second value is the drop count.
func ValidPropositions(demandeID uuid.UUID, candidates []dto.PropositionCandidate) ([]entity.Proposition, int) {
	valid := make([]entity.Proposition, 0, len(candidates))
	for _, c := range candidates {
		nom := strings.TrimSpace(c.PharmacieNom)
		quartier := strings.TrimSpace(c.Quartier)
		if nom == "" || quartier == "" {
			continue
		}
		prix, ok := parsePrix(c.Prix)
		if !ok {
			continue
		}
		valid = append(valid, entity.Proposition{
			DemandeID:    demandeID,
			PharmacieNom: nom,
			Prix:         prix,
			Quartier:     quartier,
			Adresse:      optionalText(c.Adresse),
			Telephone:    optionalText(c.Telephone),
			Disponible:   true,
		})
	}
	return valid, len(candidates) - len(valid)
}

// prixPattern is plain positional notation only; exponent forms never reach
// the decimal parser.
var prixPattern = regexp.MustCompile(`^\d{1,12}([.,]\d{1,8})?$`)

// maxPrix is the largest value the DECIMAL(12,2) prix column holds.
var maxPrix = decimal.RequireFromString("9999999999.99")

// parsePrix accepts "2500", "2500.50" and the French "2500,50".
func parsePrix(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if !prixPattern.MatchString(raw) {
		return decimal.Decimal{}, false
	}
	prix, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		return decimal.Decimal{}, false
	}
	prix = prix.Round(2)
	if prix.GreaterThan(maxPrix) {
		return decimal.Decimal{}, false
	}
	return prix, true
}

func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
