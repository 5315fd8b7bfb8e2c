package app

import (
	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/observability"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/services"
)

type Services struct {
	Catalog        services.CatalogService
	Cart           services.CartService
	Impact         services.ImpactService
	Recommendation services.RecommendationService
	Account        services.AccountService
	Order          services.OrderService
	Inventory      services.InventoryService
	Learning       services.LearningService
	Badge          services.BadgeService
	Journey        services.JourneyService
	Plant          services.PlantService
}

func wireServices(log *logger.Logger, s store.Storage, publisher services.Publisher, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	return Services{
		Catalog:        services.NewCatalogService(log, s),
		Cart:           services.NewCartService(log, s, s, metrics),
		Impact:         services.NewImpactService(log, s, publisher, metrics),
		Recommendation: services.NewRecommendationService(log, s, s, metrics),
		Account:        services.NewAccountService(log, s),
		Order:          services.NewOrderService(log, s, s, s, metrics),
		Inventory:      services.NewInventoryService(log, s, s),
		Learning:       services.NewLearningService(log, s, s),
		Badge:          services.NewBadgeService(log, s, s, s),
		Journey:        services.NewJourneyService(log, s, s, metrics),
		Plant:          services.NewPlantService(log, s),
	}
}
