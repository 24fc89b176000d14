package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog records who moved a demande or an on-duty batch, and how.
type AuditLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON is a free-form object stored as jsonb and carried in change events.
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON value type %T", value)
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// ToJSON flattens any JSON-serializable value into a JSON map.
func ToJSON(v interface{}) (JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := JSON{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Audit actions
const (
	AuditActionUserSignUp      = "user.sign_up"
	AuditActionProfileComplete = "profile.complete"
	AuditActionDemandeCreate   = "demande.create"
	AuditActionDemandePickup   = "demande.pickup"
	AuditActionDemandeComplete = "demande.complete"
	AuditActionGardeDefine     = "garde.define"
	AuditActionGardeReplace    = "garde.replace"
	AuditActionGardeDelete     = "garde.delete"
)
