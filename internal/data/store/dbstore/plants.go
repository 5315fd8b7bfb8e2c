package dbstore

import (
	"context"
	"strings"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
)

func (s *Store) ListGlobalPlants(ctx context.Context) ([]*domain.GlobalIndigenousPlant, error) {
	return s.findPlants(ctx, &predicates{})
}

func (s *Store) GetGlobalPlant(ctx context.Context, id string) (*domain.GlobalIndigenousPlant, error) {
	if !validID(id) {
		return nil, nil
	}
	var p domain.GlobalIndigenousPlant
	found, err := first(s.db.WithContext(ctx).Where("id = ?", id), &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListGlobalPlantsByRegion(ctx context.Context, region string) ([]*domain.GlobalIndigenousPlant, error) {
	p := &predicates{}
	p.add("("+likeSQL("native_region")+" OR LOWER(continent) = ?)", likePattern(region), strings.ToLower(region))
	return s.findPlants(ctx, p)
}

func (s *Store) SearchPlants(ctx context.Context, q store.PlantSearch) ([]*domain.GlobalIndigenousPlant, error) {
	p := &predicates{}
	p.containsAny([]string{"common_name", "scientific_name"}, q.Query)
	p.contains("common_name", q.CommonName)
	p.contains("scientific_name", q.ScientificName)
	p.contains("family", q.Family)
	p.contains("native_region", q.NativeRegion)
	p.contains("climate", q.Climate)
	p.contains("traditional_uses", q.TraditionalUse)
	p.contains("active_compounds", q.ActiveCompound)
	p.eqFold("continent", q.Continent)
	p.eqFold("conservation_status", q.ConservationStatus)
	p.present("research_references", q.HasResearch)
	p.present("commercial_availability", q.CommerciallyAvailable)
	return s.findPlants(ctx, p)
}

func (s *Store) findPlants(ctx context.Context, p *predicates) ([]*domain.GlobalIndigenousPlant, error) {
	out := []*domain.GlobalIndigenousPlant{}
	if err := p.apply(s.db.WithContext(ctx).Model(&domain.GlobalIndigenousPlant{})).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
