package app

import (
	"github.com/yungbote/botanica-backend/internal/data/store"
	httpH "github.com/yungbote/botanica-backend/internal/http/handlers"
	"github.com/yungbote/botanica-backend/internal/observability"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/realtime"
)

type Handlers struct {
	Health         *httpH.HealthHandler
	Catalog        *httpH.CatalogHandler
	Cart           *httpH.CartHandler
	Impact         *httpH.ImpactHandler
	Realtime       *httpH.RealtimeHandler
	Recommendation *httpH.RecommendationHandler
	Account        *httpH.AccountHandler
	Gamification   *httpH.GamificationHandler
	Inventory      *httpH.InventoryHandler
	Plant          *httpH.PlantHandler
}

func wireHandlers(log *logger.Logger, s store.Storage, svc Services, hub *realtime.SSEHub, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:         httpH.NewHealthHandler(s),
		Catalog:        httpH.NewCatalogHandler(log, svc.Catalog),
		Cart:           httpH.NewCartHandler(log, svc.Cart),
		Impact:         httpH.NewImpactHandler(log, svc.Impact),
		Realtime:       httpH.NewRealtimeHandler(log, hub, metrics),
		Recommendation: httpH.NewRecommendationHandler(log, svc.Recommendation),
		Account:        httpH.NewAccountHandler(log, svc.Account, svc.Order),
		Gamification:   httpH.NewGamificationHandler(log, svc.Learning, svc.Badge, svc.Journey),
		Inventory:      httpH.NewInventoryHandler(log, svc.Inventory),
		Plant:          httpH.NewPlantHandler(log, svc.Plant),
	}
}
