package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/commerce"
	"github.com/yungbote/botanica-backend/internal/observability"
	"github.com/yungbote/botanica-backend/internal/platform/apierr"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/platform/money"
)

type OrderLine struct {
	ProductID string
	Quantity  int
}

type PlaceOrderInput struct {
	UserID          string
	ShippingAddress string
	Items           []OrderLine
}

type OrderService interface {
	// PlaceOrder reserves stock for every line and creates a pending order. Either
	// every line is reserved or none is.
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.OrderWithItems, error)
	GetOrder(ctx context.Context, id string) (*domain.OrderWithItems, error)
	ListUserOrders(ctx context.Context, userID string) ([]*domain.OrderWithItems, error)
	UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) (*domain.OrderWithItems, error)
}

type orderService struct {
	log       *logger.Logger
	accounts  store.AccountStore
	catalog   store.CatalogStore
	inventory store.InventoryStore
	metrics   *observability.Metrics
}

func NewOrderService(log *logger.Logger, accounts store.AccountStore, catalog store.CatalogStore, inventory store.InventoryStore, metrics *observability.Metrics) OrderService {
	return &orderService{
		log:       log.With("service", "OrderService"),
		accounts:  accounts,
		catalog:   catalog,
		inventory: inventory,
		metrics:   metrics,
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.OrderWithItems, error) {
	if _, err := getUser(ctx, s.accounts, in.UserID); err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, invalid("order must contain at least one item")
	}

	orderID := uuid.NewString()
	total := decimal.Zero
	items := make([]*domain.OrderItem, 0, len(in.Items))
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, apierr.New(http.StatusBadRequest, "invalid_quantity", fmt.Errorf("quantity must be positive"))
		}
		p, err := s.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, storeErr("get product", err)
		}
		if p == nil {
			return nil, apierr.NotFound("product")
		}
		price, err := money.Parse(p.Price)
		if err != nil {
			return nil, fmt.Errorf("parse price of %s: %w", p.ID, err)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, &domain.OrderItem{
			OrderID:   orderID,
			ProductID: p.ID,
			Quantity:  line.Quantity,
			Price:     money.Format(price),
		})
	}

	reserved := make([]*domain.OrderItem, 0, len(items))
	for _, it := range items {
		ok, err := s.inventory.ReserveStock(ctx, it.ProductID, it.Quantity, orderID)
		if err != nil {
			s.release(ctx, reserved, orderID)
			return nil, storeErr("reserve stock", err)
		}
		s.metrics.ObserveReservation(ok)
		if !ok {
			s.release(ctx, reserved, orderID)
			return nil, apierr.New(http.StatusBadRequest, "insufficient_stock", fmt.Errorf("%w for product %s", errInsufficientStock, it.ProductID))
		}
		reserved = append(reserved, it)
	}

	out, err := s.accounts.CreateOrder(ctx, &domain.Order{
		ID:              orderID,
		UserID:          in.UserID,
		Status:          commerce.OrderPending,
		TotalAmount:     money.Format(total),
		ShippingAddress: strings.TrimSpace(in.ShippingAddress),
	}, items)
	if err != nil {
		s.release(ctx, reserved, orderID)
		return nil, storeErr("create order", err)
	}
	s.syncLines(ctx, items)
	s.log.Info("Order placed", "order_id", orderID, "user_id", in.UserID, "total", out.TotalAmount, "lines", len(items))
	return out, nil
}

func (s *orderService) release(ctx context.Context, items []*domain.OrderItem, orderID string) {
	for _, it := range items {
		if _, err := s.inventory.ReleaseStock(ctx, it.ProductID, it.Quantity, orderID); err != nil {
			s.log.Error("Failed to release reserved stock", "order_id", orderID, "product_id", it.ProductID, "error", err)
		}
	}
	s.syncLines(ctx, items)
}

func (s *orderService) syncLines(ctx context.Context, items []*domain.OrderItem) {
	for _, it := range items {
		refreshInStock(ctx, s.log, s.catalog, s.inventory, it.ProductID)
	}
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*domain.OrderWithItems, error) {
	o, err := s.accounts.GetOrder(ctx, id)
	if err != nil {
		return nil, storeErr("get order", err)
	}
	if o == nil {
		return nil, apierr.NotFound("order")
	}
	return o, nil
}

func (s *orderService) ListUserOrders(ctx context.Context, userID string) ([]*domain.OrderWithItems, error) {
	if _, err := getUser(ctx, s.accounts, userID); err != nil {
		return nil, err
	}
	out, err := s.accounts.ListUserOrders(ctx, userID)
	if err != nil {
		return nil, storeErr("list orders", err)
	}
	return out, nil
}

// UpdateStatus applies one lifecycle step. Confirming commits the reserved stock
// and credits the buyer; cancelling returns the reservation.
func (s *orderService) UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) (*domain.OrderWithItems, error) {
	if !next.Valid() {
		return nil, invalid("unknown order status %q", next)
	}
	current, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	from := current.Status
	if !from.CanTransition(next) {
		return nil, apierr.BadRequest("invalid_transition", "cannot move order from %s to %s", from, next)
	}
	_, ok, err := s.accounts.UpdateOrderStatus(ctx, id, from, next)
	if err != nil {
		return nil, storeErr("update order status", err)
	}
	if !ok {
		return nil, apierr.New(http.StatusConflict, "conflict", fmt.Errorf("order %s changed status concurrently", id))
	}

	switch next {
	case commerce.OrderConfirmed:
		for _, it := range current.Items {
			ok, err := s.inventory.CommitStock(ctx, it.ProductID, it.Quantity, id)
			if err != nil {
				s.log.Error("Failed to commit stock", "order_id", id, "product_id", it.ProductID, "error", err)
				continue
			}
			s.metrics.ObserveStockCommit(ok)
			if !ok {
				// The order stays confirmed.
				s.log.Warn("Reserved stock missing at confirmation", "order_id", id, "product_id", it.ProductID, "quantity", it.Quantity)
			}
		}
		total, err := money.Parse(current.TotalAmount)
		if err != nil {
			return nil, fmt.Errorf("parse order total: %w", err)
		}
		if _, err := s.accounts.AddUserRewards(ctx, current.UserID, int(total.IntPart()), total); err != nil {
			return nil, storeErr("add user rewards", err)
		}
		s.syncLines(ctx, current.Items)
	case commerce.OrderCancelled:
		s.release(ctx, current.Items, id)
	}
	s.log.Info("Order status changed", "order_id", id, "from", from, "to", next)
	return s.GetOrder(ctx, id)
}
