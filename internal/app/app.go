package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/botanica-backend/internal/config"
	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/http"
	httpMW "github.com/yungbote/botanica-backend/internal/http/middleware"
	"github.com/yungbote/botanica-backend/internal/observability"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/platform/sessiontoken"
	"github.com/yungbote/botanica-backend/internal/realtime"
	"github.com/yungbote/botanica-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	Store    store.Storage
	Bus      bus.Bus
	SSEHub   *realtime.SSEHub
	Metrics  *observability.Metrics
	Services Services
	Server   *http.Server

	otelShutdown func(context.Context) error
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return NewWithLogger(ctx, log, cfg)
}

// NewWithLogger wires the app around an existing logger.
func NewWithLogger(ctx context.Context, log *logger.Logger, cfg *config.Config) (*App, error) {
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Otel.Environment,
		Endpoint:    cfg.Otel.Endpoint,
		Headers:     observability.ParseHeaders(cfg.Otel.Headers),
		Insecure:    cfg.Otel.Insecure,
		SampleRatio: cfg.Otel.SampleRatio,
	})

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	codec, err := sessiontoken.NewCodec(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("init session codec: %w", err)
	}

	st, err := resolveStorage(ctx, log, cfg)
	if err != nil {
		return nil, err
	}

	b, err := wireBus(ctx, log, cfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	hub := realtime.NewSSEHub(log)
	serviceset := wireServices(log, st, b, metrics)
	handlerset := wireHandlers(log, st, serviceset, hub, metrics)

	routerCfg := http.RouterConfig{
		Log: log,
		Session: httpMW.SessionConfig{
			Codec:      codec,
			CookieName: cfg.Session.Cookie,
			Secure:     cfg.Session.Secure,
		},
		CORSOrigins:           cfg.CORS.AllowedOrigins,
		Metrics:               metrics,
		HealthHandler:         handlerset.Health,
		CatalogHandler:        handlerset.Catalog,
		CartHandler:           handlerset.Cart,
		ImpactHandler:         handlerset.Impact,
		RealtimeHandler:       handlerset.Realtime,
		RecommendationHandler: handlerset.Recommendation,
		AccountHandler:        handlerset.Account,
		GamificationHandler:   handlerset.Gamification,
		InventoryHandler:      handlerset.Inventory,
		PlantHandler:          handlerset.Plant,
	}
	if cfg.Otel.Enabled {
		routerCfg.TracingService = cfg.Otel.ServiceName
	}

	return &App{
		Log:          log,
		Cfg:          cfg,
		Store:        st,
		Bus:          b,
		SSEHub:       hub,
		Metrics:      metrics,
		Services:     serviceset,
		Server:       http.NewServer(cfg.Addr(), routerCfg),
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP and forwards bus messages into the SSE hub until ctx ends
// or either side fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.Bus.StartForwarder(gctx, a.SSEHub.Broadcast); err != nil {
			return fmt.Errorf("start realtime forwarder: %w", err)
		}
		<-gctx.Done()
		return nil
	})
	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.Addr(), "storage", a.Cfg.Storage.Backend)
		return a.Server.Run(gctx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Log.Warn("Realtime bus close failed", "error", err)
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Log.Warn("Storage close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("Tracer shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
