package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pharmacy is the long-lived registry entry used by the on-duty picker.
type Pharmacy struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nom       string    `gorm:"type:varchar(255);not null" json:"nom"`
	Matricule string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"matricule"`
	Quartier  string    `gorm:"type:varchar(255)" json:"quartier"`
	Actif     bool      `gorm:"not null;index" json:"actif"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Pharmacy) TableName() string {
	return "pharmacies"
}

func (p *Pharmacy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PharmacyOnDuty is one pharmacy listed as on duty for a date range.
// Name and neighborhood are copied from the registry at insert time.
type PharmacyOnDuty struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nom       string    `gorm:"type:varchar(255);not null" json:"nom"`
	Adresse   string    `gorm:"type:text" json:"adresse"`
	Quartier  string    `gorm:"type:varchar(255)" json:"quartier"`
	Telephone string    `gorm:"type:varchar(30)" json:"telephone"`
	DateDebut time.Time `gorm:"type:date;not null;index" json:"date_debut"`
	DateFin   time.Time `gorm:"type:date;not null;index" json:"date_fin"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PharmacyOnDuty) TableName() string {
	return "pharmacies_garde"
}

func (p *PharmacyOnDuty) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
