package dbstore

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/platform/money"
)

func productPredicates(f store.ProductFilter) *predicates {
	p := &predicates{}
	p.eqFold("category", f.Category)
	p.eqFold("sector", f.Sector)
	p.contains("plant_material", f.PlantMaterial)
	p.eqFold("product_type", f.ProductType)
	if f.InStock != nil {
		p.eq("in_stock", *f.InStock)
	}
	if f.MinPrice != nil {
		p.add("price >= ?", f.MinPrice.InexactFloat64())
	}
	if f.MaxPrice != nil {
		p.add("price <= ?", f.MaxPrice.InexactFloat64())
	}
	p.containsAny([]string{"name", "description", "plant_material"}, f.Search)
	if f.Certification != nil {
		// certifications is a JSON array of strings; match one quoted element.
		p.add(`LOWER(CAST(certifications AS TEXT)) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(`"`+strings.ToLower(*f.Certification)+`"`)+"%")
	}
	return p
}

func (s *Store) ListProducts(ctx context.Context, f store.ProductFilter) ([]*domain.Product, error) {
	var out []*domain.Product
	q := productPredicates(f).apply(s.db.WithContext(ctx).Model(&domain.Product{}))
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	var p domain.Product
	found, err := first(s.db.WithContext(ctx).Where("id = ?", id), &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetProductsByPlantMaterial(ctx context.Context, plantMaterial string) ([]*domain.Product, error) {
	return s.ListProducts(ctx, store.ProductFilter{PlantMaterial: &plantMaterial})
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
		row.CreatedAt = s.clock()
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, conflict(err)
	}
	return s.GetProduct(ctx, row.ID)
}

func (s *Store) SetProductInStock(ctx context.Context, id string, inStock bool) (*domain.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	res := s.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Update("in_stock", inStock)
	if res.Error != nil {
		return nil, res.Error
	}
	return s.GetProduct(ctx, id)
}

// AddProductRating recomputes the average under the previous (rating, count) pair.
func (s *Store) AddProductRating(ctx context.Context, id string, rating int) (*domain.Product, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		p, err := s.GetProduct(ctx, id)
		if err != nil || p == nil {
			return nil, err
		}
		res := s.db.WithContext(ctx).Model(&domain.Product{}).
			Where("id = ? AND review_count = ?", id, p.ReviewCount).
			Updates(map[string]any{
				"rating":       store.NextRating(p.Rating, p.ReviewCount, rating),
				"review_count": gorm.Expr("review_count + 1"),
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			return s.GetProduct(ctx, id)
		}
	}
	return nil, errCASExhausted
}

func (s *Store) ProductFilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	products, err := s.ListProducts(ctx, store.ProductFilter{})
	if err != nil {
		return nil, err
	}
	return store.FilterOptions(products), nil
}
