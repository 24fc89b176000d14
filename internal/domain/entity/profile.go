package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the actor type carried by a profile.
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleAgent  Role = "AGENT"
)

func (r Role) IsValid() bool {
	return r == RoleClient || r == RoleAgent
}

// Profile is the public identity record of an authenticated user.
// FullName stays nil until onboarding is completed.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Phone     string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"phone"`
	Role      Role      `gorm:"type:varchar(10);not null;default:'CLIENT'" json:"role"`
	FullName  *string   `gorm:"type:varchar(255)" json:"full_name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// IsOnboarded reports whether the user already chose a display name.
func (p *Profile) IsOnboarded() bool {
	return p.FullName != nil && *p.FullName != ""
}

// AuthUser holds sign-in credentials. Its ID is shared with the Profile row.
type AuthUser struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Phone        string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"phone"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AuthUser) TableName() string {
	return "auth_users"
}

func (u *AuthUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
