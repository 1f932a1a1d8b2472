package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GraduationRequirement is a credit target for one subject category,
// static per jurisdiction.
type GraduationRequirement struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Jurisdiction    string         `gorm:"column:jurisdiction;not null;index:idx_jurisdiction_category,unique" json:"jurisdiction"`
	Category        string         `gorm:"column:category;not null;index:idx_jurisdiction_category,unique" json:"category"`
	RequiredCredits float64        `gorm:"column:required_credits;not null" json:"required_credits"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (GraduationRequirement) TableName() string { return "graduation_requirement" }
