package gamification

import "time"

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Requirement types understood by the badge evaluator.
const (
	RequirementPurchases     = "purchases"
	RequirementTotalSpent    = "total_spent"
	RequirementLoyaltyPoints = "loyalty_points"
	RequirementModules       = "modules_completed"
	RequirementLearning      = "learning_progress"
	RequirementJourneyStage  = "journey_stage"
	RequirementBadgesEarned  = "badges_earned"
)

type BadgeRequirement struct {
	Type      string  `json:"type" yaml:"type"`
	Value     float64 `json:"value" yaml:"value"`
	Timeframe *string `json:"timeframe,omitempty" yaml:"timeframe"`
}

type Badge struct {
	ID          string           `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string           `gorm:"not null;uniqueIndex;column:name" json:"name"`
	Description string           `gorm:"type:text;column:description" json:"description"`
	Icon        string           `gorm:"column:icon" json:"icon"`
	Category    string           `gorm:"index;column:category" json:"category"`
	Rarity      Rarity           `gorm:"not null;default:'common';column:rarity" json:"rarity"`
	Requirement BadgeRequirement `gorm:"type:jsonb;serializer:json;column:requirement" json:"requirement"`
	XPReward    int              `gorm:"not null;default:0;column:xp_reward" json:"xpReward"`
	CreatedAt   time.Time        `gorm:"not null;column:created_at" json:"createdAt"`
}

func (Badge) TableName() string { return "badge" }

// UserBadge is an award record; (UserID, BadgeID) is unique.
type UserBadge struct {
	ID       string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_badge_user_badge,priority:1;column:user_id" json:"userId"`
	BadgeID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_badge_user_badge,priority:2;column:badge_id" json:"badgeId"`
	EarnedAt time.Time `gorm:"not null;column:earned_at" json:"earnedAt"`
}

func (UserBadge) TableName() string { return "user_badge" }
