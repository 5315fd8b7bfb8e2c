package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/botanica-backend/internal/http/response"
	"github.com/yungbote/botanica-backend/internal/platform/apierr"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/services"
)

// CartHandler serves the cart of the calling visitor session.
type CartHandler struct {
	log  *logger.Logger
	cart services.CartService
}

func NewCartHandler(log *logger.Logger, cart services.CartService) *CartHandler {
	return &CartHandler{log: log, cart: cart}
}

// GET /api/cart
func (h *CartHandler) List(c *gin.Context) {
	items, err := h.cart.List(c.Request.Context(), sessionID(c))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, items)
}

// POST /api/cart
// body: { "productId": "...", "quantity": 1 }
func (h *CartHandler) Add(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  *int   `json:"quantity"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	item, err := h.cart.Add(c.Request.Context(), sessionID(c), req.ProductID, qty)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, item)
}

// PATCH /api/cart/:id
// body: { "quantity": 2 }
func (h *CartHandler) Update(c *gin.Context) {
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	if req.Quantity == nil {
		response.RespondErr(c, h.log, apierr.BadRequest("invalid_quantity", "quantity is required"))
		return
	}
	item, err := h.cart.Update(c.Request.Context(), sessionID(c), c.Param("id"), *req.Quantity)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, item)
}

// DELETE /api/cart/:id
func (h *CartHandler) Remove(c *gin.Context) {
	if err := h.cart.Remove(c.Request.Context(), sessionID(c), c.Param("id")); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Item removed from cart"})
}

// DELETE /api/cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), sessionID(c)); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Cart cleared"})
}
