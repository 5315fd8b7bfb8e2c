package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/http/response"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/services"
)

type PlantHandler struct {
	log    *logger.Logger
	plants services.PlantService
}

func NewPlantHandler(log *logger.Logger, plants services.PlantService) *PlantHandler {
	return &PlantHandler{log: log, plants: plants}
}

// GET /api/global-indigenous-plants
func (h *PlantHandler) List(c *gin.Context) {
	out, err := h.plants.List(c.Request.Context())
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/global-indigenous-plants/region/:region
func (h *PlantHandler) ByRegion(c *gin.Context) {
	out, err := h.plants.ByRegion(c.Request.Context(), c.Param("region"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/global-indigenous-plants/:id
func (h *PlantHandler) Get(c *gin.Context) {
	p, err := h.plants.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, p)
}

// POST /api/global-indigenous-plants/search
func (h *PlantHandler) Search(c *gin.Context) {
	var req struct {
		Query                 *string `json:"query"`
		CommonName            *string `json:"commonName"`
		ScientificName        *string `json:"scientificName"`
		Family                *string `json:"family"`
		NativeRegion          *string `json:"nativeRegion"`
		Climate               *string `json:"climate"`
		TraditionalUse        *string `json:"traditionalUse"`
		ActiveCompound        *string `json:"activeCompound"`
		Continent             *string `json:"continent"`
		ConservationStatus    *string `json:"conservationStatus"`
		HasResearch           *bool   `json:"hasResearch"`
		CommerciallyAvailable *bool   `json:"commerciallyAvailable"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.plants.Search(c.Request.Context(), store.PlantSearch{
		Query:                 req.Query,
		CommonName:            req.CommonName,
		ScientificName:        req.ScientificName,
		Family:                req.Family,
		NativeRegion:          req.NativeRegion,
		Climate:               req.Climate,
		TraditionalUse:        req.TraditionalUse,
		ActiveCompound:        req.ActiveCompound,
		Continent:             req.Continent,
		ConservationStatus:    req.ConservationStatus,
		HasResearch:           req.HasResearch,
		CommerciallyAvailable: req.CommerciallyAvailable,
	})
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}
