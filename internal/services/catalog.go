package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/platform/apierr"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/platform/money"
)

type CatalogService interface {
	ListProducts(ctx context.Context, f store.ProductFilter) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ProductsByPlantMaterial(ctx context.Context, plantMaterial string) ([]*domain.Product, error)
	FilterOptions(ctx context.Context) (*domain.FilterOptions, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	AddReview(ctx context.Context, id string, rating int) (*domain.Product, error)
}

type catalogService struct {
	log     *logger.Logger
	catalog store.CatalogStore
}

func NewCatalogService(log *logger.Logger, catalog store.CatalogStore) CatalogService {
	return &catalogService{
		log:     log.With("service", "CatalogService"),
		catalog: catalog,
	}
}

func (s *catalogService) ListProducts(ctx context.Context, f store.ProductFilter) ([]*domain.Product, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, invalid("minPrice must not exceed maxPrice")
	}
	out, err := s.catalog.ListProducts(ctx, f)
	if err != nil {
		return nil, storeErr("list products", err)
	}
	return out, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr("get product", err)
	}
	if p == nil {
		return nil, apierr.NotFound("product")
	}
	return p, nil
}

func (s *catalogService) ProductsByPlantMaterial(ctx context.Context, plantMaterial string) ([]*domain.Product, error) {
	if err := required("plantMaterial", plantMaterial); err != nil {
		return nil, err
	}
	out, err := s.catalog.GetProductsByPlantMaterial(ctx, plantMaterial)
	if err != nil {
		return nil, storeErr("products by plant material", err)
	}
	return out, nil
}

func (s *catalogService) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	out, err := s.catalog.ProductFilterOptions(ctx)
	if err != nil {
		return nil, storeErr("filter options", err)
	}
	return out, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if p == nil {
		return nil, invalid("product body required")
	}
	if err := required("name", p.Name); err != nil {
		return nil, err
	}
	if err := required("price", p.Price); err != nil {
		return nil, err
	}
	price, err := money.Parse(p.Price)
	if err != nil || price.IsNegative() {
		return nil, invalid("price must be a non-negative decimal, got %q", p.Price)
	}
	if strings.TrimSpace(p.Rating) == "" {
		p.Rating = "0.0"
	} else if _, err := money.NormalizeRating(p.Rating); err != nil {
		return nil, invalid("rating must be a decimal, got %q", p.Rating)
	}
	if p.ReviewCount < 0 {
		return nil, invalid("reviewCount must not be negative")
	}
	created, err := s.catalog.CreateProduct(ctx, p)
	if err != nil {
		return nil, storeErr("create product", err)
	}
	s.log.Info("Product created", "product_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *catalogService) AddReview(ctx context.Context, id string, rating int) (*domain.Product, error) {
	if rating < 1 || rating > 5 {
		return nil, apierr.New(http.StatusBadRequest, "invalid_rating", errRatingRange)
	}
	p, err := s.catalog.AddProductRating(ctx, id, rating)
	if err != nil {
		return nil, storeErr("add product rating", err)
	}
	if p == nil {
		return nil, apierr.NotFound("product")
	}
	return p, nil
}
