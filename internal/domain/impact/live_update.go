package impact

import (
	"time"

	"gorm.io/datatypes"
)

type UpdateType string

const (
	UpdateProgress   UpdateType = "progress"
	UpdateFunding    UpdateType = "funding"
	UpdateCompletion UpdateType = "completion"
	UpdateMilestone  UpdateType = "milestone"
)

func (t UpdateType) Valid() bool {
	switch t {
	case UpdateProgress, UpdateFunding, UpdateCompletion, UpdateMilestone:
		return true
	}
	return false
}

// LiveImpactUpdate is an append-only feed entry; rows are never mutated.
type LiveImpactUpdate struct {
	ID            string         `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID     string         `gorm:"type:uuid;not null;index;column:project_id" json:"projectId"`
	UpdateType    UpdateType     `gorm:"not null;column:update_type" json:"updateType"`
	Title         string         `gorm:"not null;column:title" json:"title"`
	Message       string         `gorm:"type:text;column:message" json:"message"`
	PreviousValue *string        `gorm:"column:previous_value" json:"previousValue,omitempty"`
	NewValue      *string        `gorm:"column:new_value" json:"newValue,omitempty"`
	IsPublic      bool           `gorm:"not null;column:is_public" json:"isPublic"`
	Metadata      datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;index;column:created_at" json:"createdAt"`
}

func (LiveImpactUpdate) TableName() string { return "live_impact_update" }
