package memstore

import (
	"context"
	"strings"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/platform/money"
)

func (s *Store) ListProducts(ctx context.Context, f store.ProductFilter) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.list(f.Matches), nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.get(id), nil
}

func (s *Store) GetProductsByPlantMaterial(ctx context.Context, plantMaterial string) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.list(func(p *domain.Product) bool {
		return store.ContainsFold(p.PlantMaterial, plantMaterial)
	}), nil
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	row := p.Clone()
	row.ID = store.EnsureID(row.ID)
	price, err := money.Normalize(row.Price)
	if err != nil {
		return nil, err
	}
	row.Price = price
	if strings.TrimSpace(row.Rating) == "" {
		row.Rating = "0"
	}
	if row.Rating, err = money.NormalizeRating(row.Rating); err != nil {
		return nil, err
	}
	if row.BioactiveCompounds == nil {
		row.BioactiveCompounds = []string{}
	}
	if row.Certifications == nil {
		row.Certifications = []string{}
	}
	if row.ResearchPapers == nil {
		row.ResearchPapers = []domain.ResearchPaper{}
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products.ref(row.ID); exists {
		return nil, store.ErrConflict
	}
	s.products.put(row.ID, row)
	return s.products.get(row.ID), nil
}

func (s *Store) SetProductInStock(ctx context.Context, id string, inStock bool) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products.ref(id)
	if !ok {
		return nil, nil
	}
	p.InStock = inStock
	return s.products.get(id), nil
}

func (s *Store) AddProductRating(ctx context.Context, id string, rating int) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products.ref(id)
	if !ok {
		return nil, nil
	}
	p.Rating = store.NextRating(p.Rating, p.ReviewCount, rating)
	p.ReviewCount++
	return s.products.get(id), nil
}

func (s *Store) ProductFilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.FilterOptions(s.products.list(nil)), nil
}
