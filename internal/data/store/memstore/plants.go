package memstore

import (
	"context"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
)

func (s *Store) ListGlobalPlants(ctx context.Context) ([]*domain.GlobalIndigenousPlant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.globalPlants.list(nil), nil
}

func (s *Store) GetGlobalPlant(ctx context.Context, id string) (*domain.GlobalIndigenousPlant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.globalPlants.get(id), nil
}

func (s *Store) ListGlobalPlantsByRegion(ctx context.Context, region string) ([]*domain.GlobalIndigenousPlant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.globalPlants.list(func(p *domain.GlobalIndigenousPlant) bool {
		return store.MatchesRegion(p, region)
	}), nil
}

func (s *Store) SearchPlants(ctx context.Context, q store.PlantSearch) ([]*domain.GlobalIndigenousPlant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.globalPlants.list(q.Matches), nil
}
