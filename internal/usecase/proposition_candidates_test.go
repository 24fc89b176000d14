package usecase

import (
	"testing"

	"pharmalink/internal/delivery/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPropositions(t *testing.T) {
	demandeID := uuid.New()
	blank := "   "
	adresse := " Rue 12 "

	cases := []struct {
		name      string
		candidate dto.PropositionCandidate
		keep      bool
	}{
		{"complete", dto.PropositionCandidate{PharmacieNom: "Pharmacie Centrale", Prix: "2500", Quartier: "Plateau"}, true},
		{"decimal point", dto.PropositionCandidate{PharmacieNom: "P", Prix: "12.75", Quartier: "Q"}, true},
		{"decimal comma", dto.PropositionCandidate{PharmacieNom: "P", Prix: "12,75", Quartier: "Q"}, true},
		{"free", dto.PropositionCandidate{PharmacieNom: "P", Prix: "0", Quartier: "Q"}, true},
		{"blank name", dto.PropositionCandidate{PharmacieNom: " ", Prix: "100", Quartier: "Q"}, false},
		{"blank price", dto.PropositionCandidate{PharmacieNom: "P", Prix: "", Quartier: "Q"}, false},
		{"non numeric price", dto.PropositionCandidate{PharmacieNom: "P", Prix: "deux mille", Quartier: "Q"}, false},
		{"negative price", dto.PropositionCandidate{PharmacieNom: "P", Prix: "-5", Quartier: "Q"}, false},
		{"exponent", dto.PropositionCandidate{PharmacieNom: "P", Prix: "1e3", Quartier: "Q"}, false},
		{"huge exponent", dto.PropositionCandidate{PharmacieNom: "P", Prix: "1e50000000", Quartier: "Q"}, false},
		{"above column bound", dto.PropositionCandidate{PharmacieNom: "P", Prix: "100000000000", Quartier: "Q"}, false},
		{"rounds past column bound", dto.PropositionCandidate{PharmacieNom: "P", Prix: "9999999999.999", Quartier: "Q"}, false},
		{"column bound", dto.PropositionCandidate{PharmacieNom: "P", Prix: "9999999999,99", Quartier: "Q"}, true},
		{"plus sign", dto.PropositionCandidate{PharmacieNom: "P", Prix: "+100", Quartier: "Q"}, false},
		{"blank quartier", dto.PropositionCandidate{PharmacieNom: "P", Prix: "100", Quartier: ""}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kept, dropped := ValidPropositions(demandeID, []dto.PropositionCandidate{tc.candidate})
			if tc.keep {
				require.Len(t, kept, 1)
				assert.Zero(t, dropped)
				assert.Equal(t, demandeID, kept[0].DemandeID)
				assert.True(t, kept[0].Disponible)
			} else {
				assert.Empty(t, kept)
				assert.Equal(t, 1, dropped)
			}
		})
	}

	kept, _ := ValidPropositions(demandeID, []dto.PropositionCandidate{
		{PharmacieNom: " Pharmacie ", Prix: " 100 ", Quartier: " Bas ", Adresse: &adresse, Telephone: &blank},
	})
	require.Len(t, kept, 1)
	assert.Equal(t, "Pharmacie", kept[0].PharmacieNom)
	assert.Equal(t, "Bas", kept[0].Quartier)
	assert.Equal(t, "100", kept[0].Prix.String())
	require.NotNil(t, kept[0].Adresse)
	assert.Equal(t, "Rue 12", *kept[0].Adresse)
	assert.Nil(t, kept[0].Telephone)

	kept, _ = ValidPropositions(demandeID, []dto.PropositionCandidate{
		{PharmacieNom: "P", Prix: "1500,505", Quartier: "Q"},
	})
	require.Len(t, kept, 1)
	assert.Equal(t, "1500.51", kept[0].Prix.StringFixed(2))
}
