package services

import (
	"context"
	"strings"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/modules/recommend"
	"github.com/yungbote/botanica-backend/internal/observability"
	"github.com/yungbote/botanica-backend/internal/platform/apierr"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

var budgetRanges = map[string]struct{}{
	"":        {},
	"low":     {},
	"medium":  {},
	"high":    {},
	"premium": {},
}

// RecommendationResponse pairs a stored result set with the products it names,
// in recommendation order.
type RecommendationResponse struct {
	*domain.RecommendationResults
	Products []*domain.Product `json:"products"`
}

type RecommendationService interface {
	Generate(ctx context.Context, sessionID string, prefs *domain.UserPreferences) (*RecommendationResponse, error)
	Latest(ctx context.Context, sessionID string) (*RecommendationResponse, error)
	LatestPreferences(ctx context.Context, sessionID string) (*domain.UserPreferences, error)
}

type recommendationService struct {
	log             *logger.Logger
	catalog         store.CatalogStore
	personalization store.PersonalizationStore
	metrics         *observability.Metrics
}

func NewRecommendationService(log *logger.Logger, catalog store.CatalogStore, personalization store.PersonalizationStore, metrics *observability.Metrics) RecommendationService {
	return &recommendationService{
		log:             log.With("service", "RecommendationService"),
		catalog:         catalog,
		personalization: personalization,
		metrics:         metrics,
	}
}

// Generate snapshots the preferences, ranks the whole catalog against them and
// stores a fresh result set. Identical inputs give identical rankings.
func (s *recommendationService) Generate(ctx context.Context, sessionID string, prefs *domain.UserPreferences) (*RecommendationResponse, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if prefs == nil {
		return nil, invalid("preferences body required")
	}
	prefs.BudgetRange = strings.ToLower(strings.TrimSpace(prefs.BudgetRange))
	if _, ok := budgetRanges[prefs.BudgetRange]; !ok {
		return nil, invalid("unknown budgetRange %q", prefs.BudgetRange)
	}
	prefs.ID = ""
	prefs.SessionID = sessionID

	saved, err := s.personalization.CreateUserPreferences(ctx, prefs)
	if err != nil {
		return nil, storeErr("save preferences", err)
	}
	products, err := s.catalog.ListProducts(ctx, store.ProductFilter{})
	if err != nil {
		return nil, storeErr("list products", err)
	}
	ranked := recommend.Generate(products, recommend.FromUserPreferences(saved))
	results, err := s.personalization.CreateRecommendationResults(ctx, &domain.RecommendationResults{
		SessionID:       sessionID,
		PreferencesID:   saved.ID,
		Recommendations: ranked.Recommendations,
		ConfidenceScore: ranked.Confidence,
		Explanation:     ranked.Explanation,
	})
	if err != nil {
		return nil, storeErr("save recommendations", err)
	}
	s.metrics.IncRecommendations()
	s.log.Debug("Recommendations generated", "session_id", sessionID, "count", len(results.Recommendations), "confidence", results.ConfidenceScore)
	return s.respond(ctx, results)
}

func (s *recommendationService) Latest(ctx context.Context, sessionID string) (*RecommendationResponse, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	results, err := s.personalization.GetLatestRecommendations(ctx, sessionID)
	if err != nil {
		return nil, storeErr("latest recommendations", err)
	}
	if results == nil {
		return nil, apierr.NotFound("recommendations")
	}
	return s.respond(ctx, results)
}

func (s *recommendationService) LatestPreferences(ctx context.Context, sessionID string) (*domain.UserPreferences, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	prefs, err := s.personalization.GetLatestUserPreferences(ctx, sessionID)
	if err != nil {
		return nil, storeErr("latest preferences", err)
	}
	if prefs == nil {
		return nil, apierr.NotFound("user_preferences")
	}
	return prefs, nil
}

// respond attaches products; ones removed since the result was stored are skipped.
func (s *recommendationService) respond(ctx context.Context, results *domain.RecommendationResults) (*RecommendationResponse, error) {
	out := &RecommendationResponse{RecommendationResults: results, Products: make([]*domain.Product, 0, len(results.Recommendations))}
	for _, r := range results.Recommendations {
		p, err := s.catalog.GetProduct(ctx, r.ProductID)
		if err != nil {
			return nil, storeErr("get product", err)
		}
		if p != nil {
			out.Products = append(out.Products, p)
		}
	}
	return out, nil
}
