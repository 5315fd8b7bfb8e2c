package learning

import "time"

type SectionType string

const (
	SectionText        SectionType = "text"
	SectionVideo       SectionType = "video"
	SectionQuiz        SectionType = "quiz"
	SectionInteractive SectionType = "interactive"
)

type ContentSection struct {
	Type  SectionType `json:"type" yaml:"type"`
	Title string      `json:"title" yaml:"title"`
	Body  string      `json:"body,omitempty" yaml:"body"`
	URL   string      `json:"url,omitempty" yaml:"url"`
}

type LearningModule struct {
	ID               string           `gorm:"type:uuid;primaryKey" json:"id"`
	Title            string           `gorm:"not null;column:title" json:"title"`
	Description      string           `gorm:"type:text;column:description" json:"description"`
	Category         string           `gorm:"index;column:category" json:"category"`
	Difficulty       string           `gorm:"column:difficulty" json:"difficulty"`
	EstimatedMinutes int              `gorm:"not null;default:0;column:estimated_minutes" json:"estimatedMinutes"`
	OrderIndex       int              `gorm:"not null;default:0;index;column:order_index" json:"orderIndex"`
	Content          []ContentSection `gorm:"type:jsonb;serializer:json;column:content" json:"content"`
	Prerequisites    []string         `gorm:"type:jsonb;serializer:json;column:prerequisites" json:"prerequisites"`
	XPReward         int              `gorm:"not null;default:0;column:xp_reward" json:"xpReward"`
	CreatedAt        time.Time        `gorm:"not null;column:created_at" json:"createdAt"`
}

func (LearningModule) TableName() string { return "learning_module" }
