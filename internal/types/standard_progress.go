package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MasteryLevel is the ordered per-standard progress state.
type MasteryLevel string

const (
	MasteryIntroduced MasteryLevel = "introduced"
	MasteryDeveloping MasteryLevel = "developing"
	MasteryProficient MasteryLevel = "proficient"
	MasteryMastered   MasteryLevel = "mastered"
)

// Rank orders mastery levels; unknown levels rank below "introduced".
func (m MasteryLevel) Rank() int {
	switch m {
	case MasteryIntroduced:
		return 1
	case MasteryDeveloping:
		return 2
	case MasteryProficient:
		return 3
	case MasteryMastered:
		return 4
	default:
		return 0
	}
}

// Progress record provenance.
const (
	ProgressSourceManual     = "manual"
	ProgressSourceActivity   = "activity"
	ProgressSourceAssessment = "assessment"
)

// StandardProgress tracks a learner's mastery level for one standard.
// Level is monotonically non-decreasing; "mastered" is absorbing.
type StandardProgress struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_standard,unique" json:"user_id"`
	User           *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	StandardID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_standard,unique" json:"standard_id"`
	Standard       *Standard      `gorm:"constraint:OnDelete:CASCADE;foreignKey:StandardID;references:ID" json:"standard,omitempty"`
	Level          MasteryLevel   `gorm:"column:level;not null;default:'developing'" json:"level"`
	SourceType     string         `gorm:"column:source_type;not null;default:'manual'" json:"source_type"`
	SourceID       *uuid.UUID     `gorm:"type:uuid;column:source_id" json:"source_id,omitempty"`
	DemonstratedAt time.Time      `gorm:"column:demonstrated_at;not null;default:now()" json:"demonstrated_at"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StandardProgress) TableName() string { return "standard_progress" }
