package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StandardComponent is one granular sub-skill statement under a Standard.
// Position drives progression display; matching does not depend on it.
type StandardComponent struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StandardID uuid.UUID      `gorm:"type:uuid;not null;index" json:"standard_id"`
	Standard   *Standard      `gorm:"constraint:OnDelete:CASCADE;foreignKey:StandardID;references:ID" json:"standard,omitempty"`
	Position   int            `gorm:"column:position;not null;default:0" json:"position"`
	Text       string         `gorm:"column:text;not null" json:"text"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StandardComponent) TableName() string { return "standard_component" }
