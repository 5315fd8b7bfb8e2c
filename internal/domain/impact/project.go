package impact

import (
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/botanica-backend/internal/platform/money"
)

type ProjectCategory string

const (
	CategoryEducation      ProjectCategory = "education"
	CategoryInfrastructure ProjectCategory = "infrastructure"
	CategoryHealthcare     ProjectCategory = "healthcare"
	CategoryEnvironment    ProjectCategory = "environment"
)

func (c ProjectCategory) Valid() bool {
	switch c {
	case CategoryEducation, CategoryInfrastructure, CategoryHealthcare, CategoryEnvironment:
		return true
	}
	return false
}

type ProjectStatus string

const (
	StatusPlanning  ProjectStatus = "planning"
	StatusActive    ProjectStatus = "active"
	StatusCompleted ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// CommunityProject is a funded initiative in a sourcing community.
// CurrentFunding never exceeds FundingGoal and CompletionDate is set only while completed.
type CommunityProject struct {
	ID                   string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name                 string          `gorm:"not null;column:name" json:"name"`
	Description          string          `gorm:"type:text;column:description" json:"description"`
	Location             string          `gorm:"column:location" json:"location"`
	Community            string          `gorm:"column:community" json:"community"`
	Category             ProjectCategory `gorm:"not null;index;column:category" json:"category"`
	Status               ProjectStatus   `gorm:"not null;index;default:'planning';column:status" json:"status"`
	Progress             int             `gorm:"not null;default:0;column:progress" json:"progress"`
	FundingGoal          string          `gorm:"type:numeric(12,2);not null;column:funding_goal" json:"fundingGoal"`
	CurrentFunding       string          `gorm:"type:numeric(12,2);not null;default:0;column:current_funding" json:"currentFunding"`
	Beneficiaries        int             `gorm:"not null;default:0;column:beneficiaries" json:"beneficiaries"`
	StartDate            *time.Time      `gorm:"column:start_date" json:"startDate,omitempty"`
	TargetCompletionDate *time.Time      `gorm:"column:target_completion_date" json:"targetCompletionDate,omitempty"`
	CompletionDate       *time.Time      `gorm:"column:completion_date" json:"completionDate,omitempty"`
	ImageURL             string          `gorm:"column:image_url" json:"imageUrl"`
	CreatedAt            time.Time       `gorm:"not null;column:created_at" json:"createdAt"`
	UpdatedAt            time.Time       `gorm:"not null;column:updated_at" json:"updatedAt"`
}

func (CommunityProject) TableName() string { return "community_project" }

func (p *CommunityProject) AfterFind(tx *gorm.DB) error {
	p.FundingGoal = money.MustNormalize(p.FundingGoal)
	p.CurrentFunding = money.MustNormalize(p.CurrentFunding)
	return nil
}

// Stats aggregates impact across all community projects.
type Stats struct {
	TotalProjects      int                   `json:"totalProjects"`
	ByStatus           map[ProjectStatus]int `json:"byStatus"`
	TotalFundingGoal   string                `json:"totalFundingGoal"`
	TotalFunding       string                `json:"totalFunding"`
	TotalBeneficiaries int                   `json:"totalBeneficiaries"`
	FundingPercentage  float64               `json:"fundingPercentage"`
}
