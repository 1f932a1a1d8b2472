package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Standard is an externally defined competency statement identified by
// (code, jurisdiction). Rows are immutable after creation except for
// component attachment.
type Standard struct {
	ID           uuid.UUID            `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code         string               `gorm:"column:code;not null;index:idx_code_jurisdiction,unique" json:"code"`
	Jurisdiction string               `gorm:"column:jurisdiction;not null;index:idx_code_jurisdiction,unique" json:"jurisdiction"`
	Subject      string               `gorm:"column:subject;not null;index" json:"subject"`
	GradeLevel   string               `gorm:"column:grade_level;not null;index" json:"grade_level"`
	Statement    string               `gorm:"column:statement;not null" json:"statement"`
	Description  *string              `gorm:"column:description" json:"description,omitempty"`
	ExternalID   *string              `gorm:"column:external_id" json:"external_id,omitempty"`
	Components   []*StandardComponent `gorm:"foreignKey:StandardID;references:ID" json:"components,omitempty"`
	CreatedAt    time.Time            `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time            `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt       `gorm:"index" json:"deleted_at,omitempty"`
}

func (Standard) TableName() string { return "standard" }
