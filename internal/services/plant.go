package services

import (
	"context"
	"strings"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/platform/apierr"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

// PlantService serves the read-only reference library of indigenous plants.
type PlantService interface {
	List(ctx context.Context) ([]*domain.GlobalIndigenousPlant, error)
	Get(ctx context.Context, id string) (*domain.GlobalIndigenousPlant, error)
	ByRegion(ctx context.Context, region string) ([]*domain.GlobalIndigenousPlant, error)
	Search(ctx context.Context, q store.PlantSearch) ([]*domain.GlobalIndigenousPlant, error)
}

type plantService struct {
	log    *logger.Logger
	plants store.PlantStore
}

func NewPlantService(log *logger.Logger, plants store.PlantStore) PlantService {
	return &plantService{log: log.With("service", "PlantService"), plants: plants}
}

func (s *plantService) List(ctx context.Context) ([]*domain.GlobalIndigenousPlant, error) {
	out, err := s.plants.ListGlobalPlants(ctx)
	if err != nil {
		return nil, storeErr("list plants", err)
	}
	return out, nil
}

func (s *plantService) Get(ctx context.Context, id string) (*domain.GlobalIndigenousPlant, error) {
	p, err := s.plants.GetGlobalPlant(ctx, id)
	if err != nil {
		return nil, storeErr("get plant", err)
	}
	if p == nil {
		return nil, apierr.NotFound("global_indigenous_plant")
	}
	return p, nil
}

func (s *plantService) ByRegion(ctx context.Context, region string) ([]*domain.GlobalIndigenousPlant, error) {
	region = strings.TrimSpace(region)
	if err := required("region", region); err != nil {
		return nil, err
	}
	out, err := s.plants.ListGlobalPlantsByRegion(ctx, region)
	if err != nil {
		return nil, storeErr("list plants by region", err)
	}
	return out, nil
}

func (s *plantService) Search(ctx context.Context, q store.PlantSearch) ([]*domain.GlobalIndigenousPlant, error) {
	out, err := s.plants.SearchPlants(ctx, q)
	if err != nil {
		return nil, storeErr("search plants", err)
	}
	return out, nil
}
