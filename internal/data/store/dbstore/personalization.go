package dbstore

import (
	"context"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
)

func (s *Store) CreateUserPreferences(ctx context.Context, p *domain.UserPreferences) (*domain.UserPreferences, error) {
	row := *p
	row.ID = store.EnsureID(row.ID)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.clock()
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, conflict(err)
	}
	return &row, nil
}

func (s *Store) GetLatestUserPreferences(ctx context.Context, sessionID string) (*domain.UserPreferences, error) {
	var p domain.UserPreferences
	found, err := first(s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC"), &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateRecommendationResults(ctx context.Context, r *domain.RecommendationResults) (*domain.RecommendationResults, error) {
	row := *r
	row.ID = store.EnsureID(row.ID)
	if row.Recommendations == nil {
		row.Recommendations = []domain.ProductRecommendation{}
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.clock()
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, conflict(err)
	}
	return &row, nil
}

func (s *Store) GetLatestRecommendations(ctx context.Context, sessionID string) (*domain.RecommendationResults, error) {
	var r domain.RecommendationResults
	found, err := first(s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC"), &r)
	if err != nil || !found {
		return nil, err
	}
	return &r, nil
}
