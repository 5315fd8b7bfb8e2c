package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/botanica-backend/internal/http/handlers"
	httpMW "github.com/yungbote/botanica-backend/internal/http/middleware"
	"github.com/yungbote/botanica-backend/internal/observability"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Session httpMW.SessionConfig
	// CORSOrigins replaces the local dev origins when set.
	CORSOrigins []string
	Metrics     *observability.Metrics
	// TracingService enables otelgin spans under this service name.
	TracingService string

	HealthHandler         *httpH.HealthHandler
	CatalogHandler        *httpH.CatalogHandler
	CartHandler           *httpH.CartHandler
	ImpactHandler         *httpH.ImpactHandler
	RealtimeHandler       *httpH.RealtimeHandler
	RecommendationHandler *httpH.RecommendationHandler
	AccountHandler        *httpH.AccountHandler
	GamificationHandler   *httpH.GamificationHandler
	InventoryHandler      *httpH.InventoryHandler
	PlantHandler          *httpH.PlantHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics"))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Ops
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if cfg.Session.Codec != nil {
		api.Use(httpMW.Session(cfg.Log, cfg.Session))
	}

	// Cart
	if h := cfg.CartHandler; h != nil {
		api.GET("/cart", h.List)
		api.POST("/cart", h.Add)
		api.PATCH("/cart/:id", h.Update)
		api.DELETE("/cart/:id", h.Remove)
		api.DELETE("/cart", h.Clear)
	}

	// Catalog
	if h := cfg.CatalogHandler; h != nil {
		api.GET("/products", h.ListProducts)
		api.GET("/products/filters", h.FilterOptions)
		api.GET("/products/by-plant/:plantMaterial", h.ProductsByPlantMaterial)
		api.GET("/products/:id", h.GetProduct)
		api.POST("/products", h.CreateProduct)
		api.POST("/products/:id/reviews", h.AddReview)
	}

	// Community impact
	if h := cfg.ImpactHandler; h != nil {
		api.GET("/community-projects", h.ListProjects)
		api.GET("/community-projects/stats", h.Stats)
		api.GET("/community-projects/:id", h.GetProject)
		api.POST("/community-projects", h.CreateProject)
		api.PATCH("/community-projects/:id", h.UpdateProject)
		api.GET("/community-projects/:id/updates", h.ProjectLiveUpdates)
		api.GET("/community-projects/:id/milestones", h.ProjectMilestones)
		api.GET("/live-updates", h.ListLiveUpdates)
		api.POST("/live-updates", h.CreateLiveUpdate)
		api.GET("/impact-milestones", h.ListMilestones)
		api.POST("/impact-milestones", h.CreateMilestone)
		api.POST("/impact-milestones/:id/achieve", h.AchieveMilestone)
	}
	if h := cfg.RealtimeHandler; h != nil {
		api.GET("/live-updates/stream", h.Stream)
	}

	// Recommendations
	if h := cfg.RecommendationHandler; h != nil {
		api.POST("/recommendations", h.Generate)
		api.GET("/recommendations", h.Latest)
		api.GET("/user-preferences", h.Preferences)
	}

	// Accounts and orders
	if h := cfg.AccountHandler; h != nil {
		api.POST("/users", h.Register)
		api.POST("/users/login", h.Login)
		api.GET("/users/:userId", h.GetUser)
		api.PUT("/users/:userId", h.UpdateUser)
		api.GET("/users/:userId/orders", h.ListOrders)
		api.POST("/orders", h.PlaceOrder)
		api.GET("/orders/:id", h.GetOrder)
		api.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	}

	// Learning, badges, journey
	if h := cfg.GamificationHandler; h != nil {
		api.GET("/learning-modules", h.ListModules)
		api.GET("/learning-modules/:id", h.GetModule)
		api.GET("/users/:userId/learning", h.UserLearning)
		api.PUT("/users/:userId/learning/:moduleId", h.RecordLearning)
		api.GET("/badges", h.ListBadges)
		api.GET("/users/:userId/badges", h.UserBadges)
		api.GET("/users/:userId/badges/eligible", h.EligibleBadges)
		api.POST("/users/:userId/badges/:badgeId", h.AwardBadge)
		api.GET("/journey-stages", h.Stages)
		api.GET("/users/:userId/journey", h.Journey)
		api.GET("/users/:userId/journey/can-advance", h.CanAdvance)
		api.POST("/users/:userId/journey/advance", h.Advance)
	}

	// Inventory
	if h := cfg.InventoryHandler; h != nil {
		api.GET("/inventory", h.List)
		api.GET("/inventory/:productId", h.Get)
		api.PUT("/inventory/:productId", h.Adjust)
		api.GET("/inventory/:productId/movements", h.Movements)
	}

	// Reference library
	if h := cfg.PlantHandler; h != nil {
		api.GET("/global-indigenous-plants", h.List)
		api.GET("/global-indigenous-plants/region/:region", h.ByRegion)
		api.GET("/global-indigenous-plants/:id", h.Get)
		api.POST("/global-indigenous-plants/search", h.Search)
	}

	return r
}
