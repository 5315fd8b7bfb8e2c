package personalization

import "time"

// UserPreferences is a snapshot taken per recommendation request; history is retained.
type UserPreferences struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID        string    `gorm:"not null;index;column:session_id" json:"sessionId"`
	HealthGoals      []string  `gorm:"type:jsonb;serializer:json;column:health_goals" json:"healthGoals"`
	Lifestyle        []string  `gorm:"type:jsonb;serializer:json;column:lifestyle" json:"lifestyle"`
	PreferredFormats []string  `gorm:"type:jsonb;serializer:json;column:preferred_formats" json:"preferredFormats"`
	BudgetRange      string    `gorm:"column:budget_range" json:"budgetRange"`
	ExperienceLevel  string    `gorm:"column:experience_level" json:"experienceLevel"`
	CreatedAt        time.Time `gorm:"not null;index;column:created_at" json:"createdAt"`
}

func (UserPreferences) TableName() string { return "user_preferences" }

type ProductRecommendation struct {
	ProductID string  `json:"productId"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason"`
	Priority  int     `json:"priority"`
}

// RecommendationResults is regenerated, never merged, on every request.
type RecommendationResults struct {
	ID              string                  `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID       string                  `gorm:"not null;index;column:session_id" json:"sessionId"`
	PreferencesID   string                  `gorm:"type:uuid;not null;column:preferences_id" json:"preferencesId"`
	Recommendations []ProductRecommendation `gorm:"type:jsonb;serializer:json;column:recommendations" json:"recommendations"`
	ConfidenceScore float64                 `gorm:"not null;column:confidence_score" json:"confidenceScore"`
	Explanation     string                  `gorm:"type:text;column:explanation" json:"explanation"`
	CreatedAt       time.Time               `gorm:"not null;index;column:created_at" json:"createdAt"`
}

func (RecommendationResults) TableName() string { return "recommendation_results" }
