package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Skill record sources.
const (
	SkillSourceManual     = "manual"
	SkillSourceActivity   = "activity"
	SkillSourceAssessment = "assessment"
)

// StudentSkillRecord says a learner has earned a skill. The unique
// (user_id, skill_id) index is the idempotency boundary for credit
// awarding.
type StudentSkillRecord struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_user_skill,unique" json:"user_id"`
	User      *User            `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	SkillID   uuid.UUID        `gorm:"type:uuid;not null;index:idx_user_skill,unique" json:"skill_id"`
	Skill     *SkillDefinition `gorm:"constraint:OnDelete:CASCADE;foreignKey:SkillID;references:ID" json:"skill,omitempty"`
	Source    string           `gorm:"column:source;not null;default:'manual'" json:"source"`
	EarnedAt  time.Time        `gorm:"column:earned_at;not null;default:now()" json:"earned_at"`
	CreatedAt time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (StudentSkillRecord) TableName() string { return "student_skill_record" }
