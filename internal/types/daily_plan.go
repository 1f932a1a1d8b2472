package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Plan priority tiers, ordered by severity.
const (
	PlanPriorityCritical = "critical"
	PlanPriorityHigh     = "high"
	PlanPriorityMedium   = "medium"
	PlanPriorityLow      = "low"
)

// DailyPlan is the single canonical recommended-activity record for a
// learner and calendar date. The unique (user_id, plan_date) index keeps
// regeneration idempotent.
type DailyPlan struct {
	ID              uuid.UUID              `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID              `gorm:"type:uuid;not null;index:idx_user_plan_date,unique" json:"user_id"`
	User            *User                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	PlanDate        time.Time              `gorm:"column:plan_date;not null;index:idx_user_plan_date,unique" json:"plan_date"`
	Subject         string                 `gorm:"column:subject;not null" json:"subject"`
	Topic           string                 `gorm:"column:topic;not null" json:"topic"`
	Description     string                 `gorm:"column:description;not null;default:''" json:"description"`
	Activities      datatypes.JSON         `gorm:"type:jsonb;column:activities" json:"activities"`
	Objectives      datatypes.JSON         `gorm:"type:jsonb;column:objectives" json:"objectives"`
	Reason          string                 `gorm:"column:reason;not null;default:''" json:"reason"`
	Priority        string                 `gorm:"column:priority;not null;default:'low'" json:"priority"`
	RequirementID   *uuid.UUID             `gorm:"type:uuid;column:requirement_id" json:"requirement_id,omitempty"`
	Requirement     *GraduationRequirement `gorm:"foreignKey:RequirementID;references:ID" json:"requirement,omitempty"`
	EstimatedCredit float64                `gorm:"column:estimated_credit;not null;default:0" json:"estimated_credit"`
	TargetStandards datatypes.JSON         `gorm:"type:jsonb;column:target_standards" json:"target_standards,omitempty"`
	CreatedAt       time.Time              `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time              `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt         `gorm:"index" json:"deleted_at,omitempty"`
}

func (DailyPlan) TableName() string { return "daily_plan" }
