package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SuggestionCallLog records one suggestion-provider round trip for
// operator visibility. Failures land here too; they never surface to the
// activity-logging path.
type SuggestionCallLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     *uuid.UUID     `gorm:"type:uuid;column:user_id;index" json:"user_id,omitempty"`
	ActivityID *uuid.UUID     `gorm:"type:uuid;column:activity_id" json:"activity_id,omitempty"`
	Model      string         `gorm:"column:model;not null;default:''" json:"model"`
	Status     string         `gorm:"column:status;not null" json:"status"`
	LatencyMS  int64          `gorm:"column:latency_ms;not null;default:0" json:"latency_ms"`
	Response   datatypes.JSON `gorm:"type:jsonb;column:response" json:"response,omitempty"`
	Error      string         `gorm:"column:error;not null;default:''" json:"error"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SuggestionCallLog) TableName() string { return "suggestion_call_log" }
