package memstore

import (
	"context"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
)

func (s *Store) ListCartItems(ctx context.Context, sessionID string) ([]*domain.CartItemWithProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.cart.list(func(it *domain.CartItem) bool { return it.SessionID == sessionID })
	out := make([]*domain.CartItemWithProduct, 0, len(items))
	for _, it := range items {
		out = append(out, &domain.CartItemWithProduct{CartItem: *it, Product: s.products.get(it.ProductID)})
	}
	return out, nil
}

func (s *Store) GetCartItem(ctx context.Context, sessionID, id string) (*domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.cart.ref(id)
	if !ok || it.SessionID != sessionID {
		return nil, nil
	}
	return s.cart.get(id), nil
}

func (s *Store) AddToCart(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	if err := store.ValidateCartQuantity(item.Quantity); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.cart.find(func(it *domain.CartItem) bool {
		return it.SessionID == item.SessionID && it.ProductID == item.ProductID
	}); existing != nil {
		existing.Quantity += item.Quantity
		return s.cart.get(existing.ID), nil
	}
	row := *item
	row.ID = store.EnsureID(row.ID)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now().UTC()
	}
	s.cart.put(row.ID, &row)
	return s.cart.get(row.ID), nil
}

func (s *Store) UpdateCartItem(ctx context.Context, sessionID, id string, quantity int) (*domain.CartItem, error) {
	if err := store.ValidateCartQuantity(quantity); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.cart.ref(id)
	if !ok || it.SessionID != sessionID {
		return nil, nil
	}
	it.Quantity = quantity
	return s.cart.get(id), nil
}

func (s *Store) RemoveFromCart(ctx context.Context, sessionID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.cart.ref(id)
	if !ok || it.SessionID != sessionID {
		return false, nil
	}
	return s.cart.del(id), nil
}

func (s *Store) ClearCart(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.cart.list(func(it *domain.CartItem) bool { return it.SessionID == sessionID }) {
		s.cart.del(it.ID)
	}
	return nil
}
