package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/http/response"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/services"
)

type InventoryHandler struct {
	log       *logger.Logger
	inventory services.InventoryService
}

func NewInventoryHandler(log *logger.Logger, inventory services.InventoryService) *InventoryHandler {
	return &InventoryHandler{log: log, inventory: inventory}
}

// GET /api/inventory?lowStock=
func (h *InventoryHandler) List(c *gin.Context) {
	low, err := queryBool(c, "lowStock")
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.inventory.List(c.Request.Context(), low)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/inventory/:productId
func (h *InventoryHandler) Get(c *gin.Context) {
	inv, err := h.inventory.Get(c.Request.Context(), c.Param("productId"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, inv)
}

// PUT /api/inventory/:productId
// body: { "currentStock"?: n, "delta"?: n, "reorderLevel"?: n, "reason"?: "" }
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req struct {
		CurrentStock *int   `json:"currentStock"`
		Delta        *int   `json:"delta"`
		ReorderLevel *int   `json:"reorderLevel"`
		Reason       string `json:"reason"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	inv, err := h.inventory.Adjust(c.Request.Context(), c.Param("productId"), store.InventoryAdjustment{
		SetStock:     req.CurrentStock,
		Delta:        req.Delta,
		ReorderLevel: req.ReorderLevel,
		Reason:       req.Reason,
	})
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, inv)
}

// GET /api/inventory/:productId/movements
func (h *InventoryHandler) Movements(c *gin.Context) {
	out, err := h.inventory.Movements(c.Request.Context(), c.Param("productId"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}
