package impact

import "time"

type ImpactMilestone struct {
	ID                 string     `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID          string     `gorm:"type:uuid;not null;index;column:project_id" json:"projectId"`
	Title              string     `gorm:"not null;column:title" json:"title"`
	Description        string     `gorm:"type:text;column:description" json:"description"`
	TargetValue        string     `gorm:"column:target_value" json:"targetValue"`
	IsAchieved         bool       `gorm:"not null;default:false;column:is_achieved" json:"isAchieved"`
	AchievedDate       *time.Time `gorm:"column:achieved_date" json:"achievedDate,omitempty"`
	CelebrationMessage *string    `gorm:"column:celebration_message" json:"celebrationMessage,omitempty"`
	CreatedAt          time.Time  `gorm:"not null;column:created_at" json:"createdAt"`
}

func (ImpactMilestone) TableName() string { return "impact_milestone" }
