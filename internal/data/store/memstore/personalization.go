package memstore

import (
	"context"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
)

func (s *Store) CreateUserPreferences(ctx context.Context, p *domain.UserPreferences) (*domain.UserPreferences, error) {
	row := clonePreferences(p)
	row.ID = store.EnsureID(row.ID)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences.put(row.ID, row)
	return s.preferences.get(row.ID), nil
}

func (s *Store) GetLatestUserPreferences(ctx context.Context, sessionID string) (*domain.UserPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.preferences.newest(func(p *domain.UserPreferences) bool { return p.SessionID == sessionID }, 1)
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (s *Store) CreateRecommendationResults(ctx context.Context, r *domain.RecommendationResults) (*domain.RecommendationResults, error) {
	row := cloneResults(r)
	row.ID = store.EnsureID(row.ID)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results.put(row.ID, row)
	return s.results.get(row.ID), nil
}

func (s *Store) GetLatestRecommendations(ctx context.Context, sessionID string) (*domain.RecommendationResults, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.results.newest(func(r *domain.RecommendationResults) bool { return r.SessionID == sessionID }, 1)
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
