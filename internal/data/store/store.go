// Package store declares the persistence contract shared by the in-memory and
// database backends.
//
// Lookups and mutations report a missing target as a nil result with a nil error;
// deletes and conditional operations report it as false. Errors are reserved for
// backend failure and for the sentinels in errors.go.
package store

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/modules/journey"
)

type CatalogStore interface {
	ListProducts(ctx context.Context, f ProductFilter) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductsByPlantMaterial(ctx context.Context, plantMaterial string) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	SetProductInStock(ctx context.Context, id string, inStock bool) (*domain.Product, error)
	// AddProductRating folds one rating (1-5) into the product's average.
	AddProductRating(ctx context.Context, id string, rating int) (*domain.Product, error)
	ProductFilterOptions(ctx context.Context) (*domain.FilterOptions, error)
}

type CartStore interface {
	ListCartItems(ctx context.Context, sessionID string) ([]*domain.CartItemWithProduct, error)
	GetCartItem(ctx context.Context, sessionID, id string) (*domain.CartItem, error)
	// AddToCart merges into an existing line for the same session and product.
	AddToCart(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error)
	UpdateCartItem(ctx context.Context, sessionID, id string, quantity int) (*domain.CartItem, error)
	RemoveFromCart(ctx context.Context, sessionID, id string) (bool, error)
	ClearCart(ctx context.Context, sessionID string) error
}

type ImpactStore interface {
	ListCommunityProjects(ctx context.Context, f ProjectFilter) ([]*domain.CommunityProject, error)
	GetCommunityProject(ctx context.Context, id string) (*domain.CommunityProject, error)
	CreateCommunityProject(ctx context.Context, p *domain.CommunityProject) (*domain.CommunityProject, error)
	// UpdateCommunityProject returns the project before and after the patch.
	UpdateCommunityProject(ctx context.Context, id string, patch ProjectPatch) (before, after *domain.CommunityProject, err error)
	ImpactStats(ctx context.Context) (*domain.ImpactStats, error)
	ListLiveUpdates(ctx context.Context, f LiveUpdateFilter) ([]*domain.LiveImpactUpdate, error)
	CreateLiveUpdate(ctx context.Context, u *domain.LiveImpactUpdate) (*domain.LiveImpactUpdate, error)
	ListMilestones(ctx context.Context, projectID string) ([]*domain.ImpactMilestone, error)
	CreateMilestone(ctx context.Context, m *domain.ImpactMilestone) (*domain.ImpactMilestone, error)
	// AchieveMilestone is idempotent; the first achievedDate is kept.
	AchieveMilestone(ctx context.Context, id string, celebration *string) (*domain.ImpactMilestone, error)
}

type PersonalizationStore interface {
	CreateUserPreferences(ctx context.Context, p *domain.UserPreferences) (*domain.UserPreferences, error)
	GetLatestUserPreferences(ctx context.Context, sessionID string) (*domain.UserPreferences, error)
	CreateRecommendationResults(ctx context.Context, r *domain.RecommendationResults) (*domain.RecommendationResults, error)
	GetLatestRecommendations(ctx context.Context, sessionID string) (*domain.RecommendationResults, error)
}

type AccountStore interface {
	CreateUser(ctx context.Context, u *domain.User) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	AddUserRewards(ctx context.Context, id string, loyaltyPoints int, spent decimal.Decimal) (*domain.User, error)
	CreateOrder(ctx context.Context, o *domain.Order, items []*domain.OrderItem) (*domain.OrderWithItems, error)
	GetOrder(ctx context.Context, id string) (*domain.OrderWithItems, error)
	ListUserOrders(ctx context.Context, userID string) ([]*domain.OrderWithItems, error)
	// UpdateOrderStatus moves an order from `from` to `to`; false when the order is no longer in `from`.
	UpdateOrderStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, bool, error)
}

type InventoryStore interface {
	ListInventory(ctx context.Context, f InventoryFilter) ([]*domain.Inventory, error)
	GetInventory(ctx context.Context, productID string) (*domain.Inventory, error)
	// AdjustInventory creates the row on first adjustment of a known product.
	AdjustInventory(ctx context.Context, productID string, adj InventoryAdjustment) (*domain.Inventory, error)
	// ReserveStock succeeds only when qty <= current-reserved, appending one movement.
	ReserveStock(ctx context.Context, productID string, qty int, orderID string) (bool, error)
	// ReleaseStock is floored at zero reserved; false when nothing is reserved.
	ReleaseStock(ctx context.Context, productID string, qty int, orderID string) (bool, error)
	// CommitStock turns reserved units into a sale, lowering both on-hand and reserved.
	CommitStock(ctx context.Context, productID string, qty int, orderID string) (bool, error)
	ListInventoryMovements(ctx context.Context, productID string) ([]*domain.InventoryMovement, error)
}

type LearningStore interface {
	ListLearningModules(ctx context.Context) ([]*domain.LearningModule, error)
	GetLearningModule(ctx context.Context, id string) (*domain.LearningModule, error)
	ListUserLearningProgress(ctx context.Context, userID string) ([]*domain.UserLearningProgress, error)
	GetUserLearningProgress(ctx context.Context, userID, moduleID string) (*domain.UserLearningProgress, error)
	// RecordLearningProgress never lowers stored progress.
	RecordLearningProgress(ctx context.Context, userID, moduleID string, progress int) (*domain.UserLearningProgress, error)
}

type BadgeStore interface {
	ListBadges(ctx context.Context) ([]*domain.Badge, error)
	GetBadge(ctx context.Context, id string) (*domain.Badge, error)
	ListUserBadges(ctx context.Context, userID string) ([]*domain.UserBadge, error)
	// AwardBadge is idempotent; created is false when the award already existed.
	AwardBadge(ctx context.Context, userID, badgeID string) (award *domain.UserBadge, created bool, err error)
	// CheckBadgeEligibility lists the badges the user has not been awarded yet.
	CheckBadgeEligibility(ctx context.Context, userID string) ([]*domain.Badge, error)
}

type JourneyStore interface {
	ListJourneyStages(ctx context.Context) ([]*domain.JourneyStage, error)
	GetJourneyStage(ctx context.Context, id string) (*domain.JourneyStage, error)
	GetUserJourneyProgress(ctx context.Context, userID string) (*domain.UserJourneyProgress, error)
	// StartJourney places the user on the first stage; existing progress is returned unchanged.
	StartJourney(ctx context.Context, userID string) (*domain.UserJourneyProgress, error)
	UserStats(ctx context.Context, userID string) (*domain.UserStats, error)
	CanAdvanceJourneyStage(ctx context.Context, userID string) (*journey.Evaluation, error)
	// AdvanceJourneyStage applies the next stage's rewards; advanced is false when requirements are unmet.
	AdvanceJourneyStage(ctx context.Context, userID string) (progress *domain.UserJourneyProgress, advanced bool, err error)
}

type PlantStore interface {
	ListGlobalPlants(ctx context.Context) ([]*domain.GlobalIndigenousPlant, error)
	GetGlobalPlant(ctx context.Context, id string) (*domain.GlobalIndigenousPlant, error)
	ListGlobalPlantsByRegion(ctx context.Context, region string) ([]*domain.GlobalIndigenousPlant, error)
	SearchPlants(ctx context.Context, q PlantSearch) ([]*domain.GlobalIndigenousPlant, error)
}

// Storage is the full persistence surface. Callers depend on the narrower
// interfaces above where they can.
type Storage interface {
	CatalogStore
	CartStore
	ImpactStore
	PersonalizationStore
	AccountStore
	InventoryStore
	LearningStore
	BadgeStore
	JourneyStore
	PlantStore

	Ping(ctx context.Context) error
	Close() error
}
