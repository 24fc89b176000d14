package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Proposition is an agent-recorded pharmacy/price match against a demande.
// Rows are immutable once inserted.
type Proposition struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	DemandeID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"demande_id"`
	PharmacieNom string          `gorm:"type:varchar(255);not null" json:"pharmacie_nom"`
	Prix         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"prix"`
	Quartier     string          `gorm:"type:varchar(255);not null" json:"quartier"`
	Adresse      *string         `gorm:"type:text" json:"adresse"`
	Telephone    *string         `gorm:"type:varchar(30)" json:"telephone"`
	Disponible   bool            `gorm:"not null" json:"disponible"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Proposition) TableName() string {
	return "propositions"
}

func (p *Proposition) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
