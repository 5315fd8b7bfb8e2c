package services

import (
	"context"
	"net/http"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/observability"
	"github.com/yungbote/botanica-backend/internal/platform/apierr"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

// CartService manages the cart of one visitor session. Every operation is scoped
// by sessionID; lines of other sessions are invisible.
type CartService interface {
	List(ctx context.Context, sessionID string) ([]*domain.CartItemWithProduct, error)
	Add(ctx context.Context, sessionID, productID string, quantity int) (*domain.CartItem, error)
	Update(ctx context.Context, sessionID, id string, quantity int) (*domain.CartItem, error)
	Remove(ctx context.Context, sessionID, id string) error
	Clear(ctx context.Context, sessionID string) error
}

type cartService struct {
	log     *logger.Logger
	cart    store.CartStore
	catalog store.CatalogStore
	metrics *observability.Metrics
}

func NewCartService(log *logger.Logger, cart store.CartStore, catalog store.CatalogStore, metrics *observability.Metrics) CartService {
	return &cartService{
		log:     log.With("service", "CartService"),
		cart:    cart,
		catalog: catalog,
		metrics: metrics,
	}
}

func (s *cartService) List(ctx context.Context, sessionID string) ([]*domain.CartItemWithProduct, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	items, err := s.cart.ListCartItems(ctx, sessionID)
	if err != nil {
		return nil, storeErr("list cart", err)
	}
	return items, nil
}

func (s *cartService) Add(ctx context.Context, sessionID, productID string, quantity int) (*domain.CartItem, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, apierr.New(http.StatusBadRequest, "invalid_quantity", errNegativeQuantity)
	}
	if err := required("productId", productID); err != nil {
		return nil, err
	}
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, storeErr("get product", err)
	}
	if p == nil {
		return nil, apierr.NotFound("product")
	}
	item, err := s.cart.AddToCart(ctx, &domain.CartItem{
		SessionID: sessionID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		return nil, storeErr("add to cart", err)
	}
	s.metrics.IncCartAdd()
	s.log.Debug("Cart line added", "session_id", sessionID, "product_id", productID, "quantity", item.Quantity)
	return item, nil
}

func (s *cartService) Update(ctx context.Context, sessionID, id string, quantity int) (*domain.CartItem, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, apierr.New(http.StatusBadRequest, "invalid_quantity", errNegativeQuantity)
	}
	item, err := s.cart.UpdateCartItem(ctx, sessionID, id, quantity)
	if err != nil {
		return nil, storeErr("update cart item", err)
	}
	if item == nil {
		return nil, apierr.NotFound("cart_item")
	}
	return item, nil
}

func (s *cartService) Remove(ctx context.Context, sessionID, id string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	ok, err := s.cart.RemoveFromCart(ctx, sessionID, id)
	if err != nil {
		return storeErr("remove from cart", err)
	}
	if !ok {
		return apierr.NotFound("cart_item")
	}
	return nil
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	if err := s.cart.ClearCart(ctx, sessionID); err != nil {
		return storeErr("clear cart", err)
	}
	return nil
}
