package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreditTotal is the derived per-(user, requirement) credit sum. It is a
// read-side convenience only: the student_skill_record ledger stays the
// source of truth and totals are recomputable from it at any time.
type CreditTotal struct {
	ID            uuid.UUID              `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID              `gorm:"type:uuid;not null;index:idx_user_requirement,unique" json:"user_id"`
	User          *User                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	RequirementID uuid.UUID              `gorm:"type:uuid;not null;index:idx_user_requirement,unique" json:"requirement_id"`
	Requirement   *GraduationRequirement `gorm:"constraint:OnDelete:CASCADE;foreignKey:RequirementID;references:ID" json:"requirement,omitempty"`
	EarnedCredits float64                `gorm:"column:earned_credits;not null;default:0" json:"earned_credits"`
	CreatedAt     time.Time              `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time              `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt         `gorm:"index" json:"deleted_at,omitempty"`
}

func (CreditTotal) TableName() string { return "credit_total" }
