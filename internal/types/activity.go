package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity kinds. Projects get special treatment in planning: an
// unfinished recent project takes over the next plan's topic.
const (
	ActivityTypeLesson  = "lesson"
	ActivityTypeProject = "project"
	ActivityTypeOuting  = "outing"
	ActivityTypeReading = "reading"
)

// Activity is one logged learner activity: free text plus optional skill
// tags. It is the entry point for both the mastery ledger and the
// standards linker.
type Activity struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Title        string         `gorm:"column:title;not null" json:"title"`
	Description  string         `gorm:"column:description;not null;default:''" json:"description"`
	ActivityType string         `gorm:"column:activity_type;not null;default:'lesson'" json:"activity_type"`
	Subject      string         `gorm:"column:subject;not null;default:''" json:"subject"`
	SkillTags    datatypes.JSON `gorm:"type:jsonb;column:skill_tags" json:"skill_tags,omitempty"`
	CompletedAt  *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Activity) TableName() string { return "activity" }
