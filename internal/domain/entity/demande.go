package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DemandeStatus is the lifecycle state of a medication request.
// It only ever moves forward: en_attente -> en_cours -> traite.
type DemandeStatus string

const (
	DemandeStatusEnAttente DemandeStatus = "en_attente"
	DemandeStatusEnCours   DemandeStatus = "en_cours"
	DemandeStatusTraite    DemandeStatus = "traite"
)

// DemandeStatuses lists the states in lifecycle order.
var DemandeStatuses = []DemandeStatus{
	DemandeStatusEnAttente,
	DemandeStatusEnCours,
	DemandeStatusTraite,
}

// IsValid reports whether s is one of the three lifecycle states.
func (s DemandeStatus) IsValid() bool {
	return s.rank() >= 0
}

func (s DemandeStatus) rank() int {
	for i, st := range DemandeStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// CanAdvanceTo reports whether moving from s to next keeps the lifecycle forward-only.
func (s DemandeStatus) CanAdvanceTo(next DemandeStatus) bool {
	from, to := s.rank(), next.rank()
	return from >= 0 && to > from
}

// Demande is a client's search for a medication.
type Demande struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"client_id"`
	AgentID       *uuid.UUID    `gorm:"type:uuid;index" json:"agent_id"`
	MedicamentNom string        `gorm:"type:varchar(255);not null" json:"medicament_nom"`
	Description   *string       `gorm:"type:text" json:"description"`
	Status        DemandeStatus `gorm:"type:varchar(20);not null;default:'en_attente';index" json:"status"`
	CreatedAt     time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Client       *Profile      `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Propositions []Proposition `gorm:"foreignKey:DemandeID" json:"propositions,omitempty"`
}

func (Demande) TableName() string {
	return "demandes"
}

func (d *Demande) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// IsPending checks if the demande still waits for an agent
func (d *Demande) IsPending() bool {
	return d.Status == DemandeStatusEnAttente
}

// IsInProgress checks if an agent picked the demande up
func (d *Demande) IsInProgress() bool {
	return d.Status == DemandeStatusEnCours
}

// IsTreated checks if offers were recorded for the demande
func (d *Demande) IsTreated() bool {
	return d.Status == DemandeStatusTraite
}

// DemandeFilter scopes demande reads to one actor.
type DemandeFilter struct {
	ClientID *uuid.UUID    // nil for agents: every demande is visible
	Status   DemandeStatus // empty means all statuses
	Limit    int           // <= 0 means no limit
}

// DemandeStats holds per-status counts over a set of demandes.
type DemandeStats struct {
	Total     int `json:"total"`
	EnAttente int `json:"en_attente"`
	EnCours   int `json:"en_cours"`
	Traite    int `json:"traite"`
}

// ComputeDemandeStats counts demandes by status.
func ComputeDemandeStats(demandes []Demande) DemandeStats {
	var stats DemandeStats
	for _, d := range demandes {
		switch d.Status {
		case DemandeStatusEnAttente:
			stats.EnAttente++
		case DemandeStatusEnCours:
			stats.EnCours++
		case DemandeStatusTraite:
			stats.Traite++
		default:
			// unknown statuses are not counted anywhere so totals stay consistent
			continue
		}
		stats.Total++
	}
	return stats
}
