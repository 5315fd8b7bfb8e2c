package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/http/response"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/services"
)

type AccountHandler struct {
	log      *logger.Logger
	accounts services.AccountService
	orders   services.OrderService
}

func NewAccountHandler(log *logger.Logger, accounts services.AccountService, orders services.OrderService) *AccountHandler {
	return &AccountHandler{log: log, accounts: accounts, orders: orders}
}

// POST /api/users
func (h *AccountHandler) Register(c *gin.Context) {
	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	u, err := h.accounts.Register(c.Request.Context(), services.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, u)
}

// POST /api/users/login
// body: { "email": "...", "password": "..." }
func (h *AccountHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	u, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, u)
}

// GET /api/users/:userId
func (h *AccountHandler) GetUser(c *gin.Context) {
	u, err := h.accounts.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, u)
}

// PUT /api/users/:userId
func (h *AccountHandler) UpdateUser(c *gin.Context) {
	var req struct {
		Username  *string `json:"username"`
		Email     *string `json:"email"`
		Password  *string `json:"password"`
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	u, err := h.accounts.UpdateUser(c.Request.Context(), c.Param("userId"), services.UserUpdate{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, u)
}

// GET /api/users/:userId/orders
func (h *AccountHandler) ListOrders(c *gin.Context) {
	out, err := h.orders.ListUserOrders(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/orders
// body: { "userId": "...", "shippingAddress": "...", "items": [{ "productId": "...", "quantity": 1 }] }
func (h *AccountHandler) PlaceOrder(c *gin.Context) {
	var req struct {
		UserID          string `json:"userId"`
		ShippingAddress string `json:"shippingAddress"`
		Items           []struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	in := services.PlaceOrderInput{UserID: req.UserID, ShippingAddress: req.ShippingAddress}
	for _, it := range req.Items {
		in.Items = append(in.Items, services.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	o, err := h.orders.PlaceOrder(c.Request.Context(), in)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, o)
}

// GET /api/orders/:id
func (h *AccountHandler) GetOrder(c *gin.Context) {
	o, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, o)
}

// PATCH /api/orders/:id/status
// body: { "status": "confirmed" }
func (h *AccountHandler) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	o, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, o)
}
