package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SkillDefinition is a named, credit-bearing competency. Reference data:
// nothing in the core creates one implicitly, an unresolved name is
// reported instead.
type SkillDefinition struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Category    string         `gorm:"column:category;not null;index" json:"category"`
	CreditValue float64        `gorm:"column:credit_value;not null;default:0" json:"credit_value"`
	Description *string        `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SkillDefinition) TableName() string { return "skill_definition" }
