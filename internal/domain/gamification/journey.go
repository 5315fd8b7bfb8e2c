package gamification

import "time"

// StageRequirements thresholds are optional; a nil threshold places no constraint.
type StageRequirements struct {
	MinPurchases        *int `json:"minPurchases,omitempty" yaml:"minPurchases"`
	MinLearningProgress *int `json:"minLearningProgress,omitempty" yaml:"minLearningProgress"`
	MinLoyaltyPoints    *int `json:"minLoyaltyPoints,omitempty" yaml:"minLoyaltyPoints"`
}

type StageRewards struct {
	XP              int `json:"xp" yaml:"xp"`
	LoyaltyPoints   int `json:"loyaltyPoints" yaml:"loyaltyPoints"`
	DiscountPercent int `json:"discountPercent" yaml:"discountPercent"`
}

type JourneyStage struct {
	ID           string            `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string            `gorm:"not null;column:name" json:"name"`
	Description  string            `gorm:"type:text;column:description" json:"description"`
	OrderIndex   int               `gorm:"not null;uniqueIndex;column:order_index" json:"orderIndex"`
	Requirements StageRequirements `gorm:"type:jsonb;serializer:json;column:requirements" json:"requirements"`
	Rewards      StageRewards      `gorm:"type:jsonb;serializer:json;column:rewards" json:"rewards"`
	CreatedAt    time.Time         `gorm:"not null;column:created_at" json:"createdAt"`
}

func (JourneyStage) TableName() string { return "journey_stage" }

type UserJourneyProgress struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string    `gorm:"type:uuid;not null;uniqueIndex;column:user_id" json:"userId"`
	CurrentStageID  string    `gorm:"type:uuid;not null;column:current_stage_id" json:"currentStageId"`
	CompletedStages []string  `gorm:"type:jsonb;serializer:json;column:completed_stages" json:"completedStages"`
	TotalXP         int       `gorm:"not null;default:0;column:total_xp" json:"totalXp"`
	Level           int       `gorm:"not null;default:1;column:level" json:"level"`
	ProgressToNext  int       `gorm:"not null;default:0;column:progress_to_next" json:"progressToNext"`
	UpdatedAt       time.Time `gorm:"not null;column:updated_at" json:"updatedAt"`
}

func (UserJourneyProgress) TableName() string { return "user_journey_progress" }

// UserStats is the aggregate a user's journey and badge requirements are measured against.
type UserStats struct {
	UserID           string `json:"userId"`
	PurchaseCount    int    `json:"purchaseCount"`
	TotalSpent       string `json:"totalSpent"`
	LoyaltyPoints    int    `json:"loyaltyPoints"`
	LearningProgress int    `json:"learningProgress"`
	ModulesCompleted int    `json:"modulesCompleted"`
	BadgesEarned     int    `json:"badgesEarned"`
	StageOrder       int    `json:"stageOrder"`
}
