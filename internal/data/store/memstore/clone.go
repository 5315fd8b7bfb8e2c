package memstore

import (
	"gorm.io/datatypes"

	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/learning"
	"github.com/yungbote/botanica-backend/internal/domain/personalization"
)

func shallow[T any](v *T) *T {
	c := *v
	return &c
}

func strs(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}

func ptrCopy[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneProduct(p *domain.Product) *domain.Product { return p.Clone() }

func cloneProject(p *domain.CommunityProject) *domain.CommunityProject {
	c := *p
	c.StartDate = ptrCopy(p.StartDate)
	c.TargetCompletionDate = ptrCopy(p.TargetCompletionDate)
	c.CompletionDate = ptrCopy(p.CompletionDate)
	return &c
}

func cloneLiveUpdate(u *domain.LiveImpactUpdate) *domain.LiveImpactUpdate {
	c := *u
	c.PreviousValue = ptrCopy(u.PreviousValue)
	c.NewValue = ptrCopy(u.NewValue)
	if u.Metadata != nil {
		c.Metadata = append(datatypes.JSON(nil), u.Metadata...)
	}
	return &c
}

func cloneMilestone(m *domain.ImpactMilestone) *domain.ImpactMilestone {
	c := *m
	c.AchievedDate = ptrCopy(m.AchievedDate)
	c.CelebrationMessage = ptrCopy(m.CelebrationMessage)
	return &c
}

func clonePreferences(p *domain.UserPreferences) *domain.UserPreferences {
	c := *p
	c.HealthGoals = strs(p.HealthGoals)
	c.Lifestyle = strs(p.Lifestyle)
	c.PreferredFormats = strs(p.PreferredFormats)
	return &c
}

func cloneResults(r *domain.RecommendationResults) *domain.RecommendationResults {
	c := *r
	c.Recommendations = append([]personalization.ProductRecommendation{}, r.Recommendations...)
	return &c
}

func cloneMovement(m *domain.InventoryMovement) *domain.InventoryMovement {
	c := *m
	c.OrderID = ptrCopy(m.OrderID)
	return &c
}

func cloneModule(m *domain.LearningModule) *domain.LearningModule {
	c := *m
	c.Content = append([]learning.ContentSection{}, m.Content...)
	c.Prerequisites = strs(m.Prerequisites)
	return &c
}

func cloneLearningProgress(p *domain.UserLearningProgress) *domain.UserLearningProgress {
	c := *p
	c.StartedAt = ptrCopy(p.StartedAt)
	c.CompletedAt = ptrCopy(p.CompletedAt)
	return &c
}

func cloneBadge(b *domain.Badge) *domain.Badge {
	c := *b
	c.Requirement.Timeframe = ptrCopy(b.Requirement.Timeframe)
	return &c
}

func cloneStage(s *domain.JourneyStage) *domain.JourneyStage {
	c := *s
	c.Requirements.MinPurchases = ptrCopy(s.Requirements.MinPurchases)
	c.Requirements.MinLearningProgress = ptrCopy(s.Requirements.MinLearningProgress)
	c.Requirements.MinLoyaltyPoints = ptrCopy(s.Requirements.MinLoyaltyPoints)
	return &c
}

func cloneJourney(p *domain.UserJourneyProgress) *domain.UserJourneyProgress {
	c := *p
	c.CompletedStages = strs(p.CompletedStages)
	return &c
}

func clonePlant(p *domain.GlobalIndigenousPlant) *domain.GlobalIndigenousPlant {
	c := *p
	c.ResearchReferences = ptrCopy(p.ResearchReferences)
	c.CommercialAvailability = ptrCopy(p.CommercialAvailability)
	return &c
}
