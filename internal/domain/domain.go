package domain

import (
	"github.com/yungbote/botanica-backend/internal/domain/catalog"
	"github.com/yungbote/botanica-backend/internal/domain/commerce"
	"github.com/yungbote/botanica-backend/internal/domain/gamification"
	"github.com/yungbote/botanica-backend/internal/domain/impact"
	"github.com/yungbote/botanica-backend/internal/domain/learning"
	"github.com/yungbote/botanica-backend/internal/domain/personalization"
	"github.com/yungbote/botanica-backend/internal/domain/reference"
)

type Product = catalog.Product
type ResearchPaper = catalog.ResearchPaper
type FilterOptions = catalog.FilterOptions

type CartItem = commerce.CartItem
type CartItemWithProduct = commerce.CartItemWithProduct
type User = commerce.User
type Order = commerce.Order
type OrderItem = commerce.OrderItem
type OrderWithItems = commerce.OrderWithItems
type OrderStatus = commerce.OrderStatus
type Inventory = commerce.Inventory
type InventoryMovement = commerce.InventoryMovement

type CommunityProject = impact.CommunityProject
type LiveImpactUpdate = impact.LiveImpactUpdate
type ImpactMilestone = impact.ImpactMilestone
type ImpactStats = impact.Stats

type UserPreferences = personalization.UserPreferences
type RecommendationResults = personalization.RecommendationResults
type ProductRecommendation = personalization.ProductRecommendation

type LearningModule = learning.LearningModule
type UserLearningProgress = learning.UserLearningProgress

type Badge = gamification.Badge
type UserBadge = gamification.UserBadge
type JourneyStage = gamification.JourneyStage
type UserJourneyProgress = gamification.UserJourneyProgress
type UserStats = gamification.UserStats

type GlobalIndigenousPlant = reference.GlobalIndigenousPlant

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		&Product{},
		&CartItem{},
		&User{},
		&Order{},
		&OrderItem{},
		&Inventory{},
		&InventoryMovement{},
		&CommunityProject{},
		&LiveImpactUpdate{},
		&ImpactMilestone{},
		&UserPreferences{},
		&RecommendationResults{},
		&LearningModule{},
		&UserLearningProgress{},
		&Badge{},
		&UserBadge{},
		&JourneyStage{},
		&UserJourneyProgress{},
		&GlobalIndigenousPlant{},
	}
}
