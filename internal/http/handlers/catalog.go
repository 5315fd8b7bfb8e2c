package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/http/response"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/services"
)

type CatalogHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{log: log, catalog: catalog}
}

func productFilter(c *gin.Context) (store.ProductFilter, error) {
	f := store.ProductFilter{
		Category:      queryString(c, "category"),
		Sector:        queryString(c, "sector"),
		PlantMaterial: queryString(c, "plantMaterial"),
		ProductType:   queryString(c, "productType"),
		Search:        queryString(c, "search"),
		Certification: queryString(c, "certification"),
	}
	var err error
	if f.InStock, err = queryBool(c, "inStock"); err != nil {
		return f, err
	}
	if f.MinPrice, err = queryDecimal(c, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryDecimal(c, "maxPrice"); err != nil {
		return f, err
	}
	return f, nil
}

// GET /api/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	f, err := productFilter(c)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.catalog.ListProducts(c.Request.Context(), f)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/products/filters
func (h *CatalogHandler) FilterOptions(c *gin.Context) {
	out, err := h.catalog.FilterOptions(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/products/by-plant/:plantMaterial
func (h *CatalogHandler) ProductsByPlantMaterial(c *gin.Context) {
	out, err := h.catalog.ProductsByPlantMaterial(c.Request.Context(), c.Param("plantMaterial"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, p)
}

// POST /api/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req domain.Product
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	req.ID = ""
	p, err := h.catalog.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, p)
}

// POST /api/products/:id/reviews
// body: { "rating": 1..5 }
func (h *CatalogHandler) AddReview(c *gin.Context) {
	var req struct {
		Rating int `json:"rating"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	p, err := h.catalog.AddReview(c.Request.Context(), c.Param("id"), req.Rating)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, p)
}
