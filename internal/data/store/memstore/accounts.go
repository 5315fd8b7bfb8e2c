package memstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/commerce"
	"github.com/yungbote/botanica-backend/internal/platform/money"
)

func (s *Store) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	row := *u
	row.ID = store.EnsureID(row.ID)
	row.TotalSpent = money.MustNormalize(row.TotalSpent)
	now := s.now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUserUnique(row.ID, row.Username, row.Email); err != nil {
		return nil, err
	}
	if _, exists := s.users.ref(row.ID); exists {
		return nil, store.ErrConflict
	}
	s.users.put(row.ID, &row)
	return s.users.get(row.ID), nil
}

func (s *Store) checkUserUnique(id, username, email string) error {
	clash := s.users.find(func(other *domain.User) bool {
		return other.ID != id && (strings.EqualFold(other.Email, email) || other.Username == username)
	})
	if clash != nil {
		return fmt.Errorf("%w: username or email already registered", store.ErrConflict)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.get(id), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u := s.users.find(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
	if u == nil {
		return nil, nil
	}
	return s.users.get(u.ID), nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch store.UserPatch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.users.ref(id)
	if !ok {
		return nil, nil
	}
	next := *current
	patch.Apply(&next, s.now().UTC())
	if err := s.checkUserUnique(id, next.Username, next.Email); err != nil {
		return nil, err
	}
	s.users.put(id, &next)
	return s.users.get(id), nil
}

func (s *Store) AddUserRewards(ctx context.Context, id string, loyaltyPoints int, spent decimal.Decimal) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserRewardsLocked(id, loyaltyPoints, spent)
}

func (s *Store) addUserRewardsLocked(id string, loyaltyPoints int, spent decimal.Decimal) (*domain.User, error) {
	u, ok := s.users.ref(id)
	if !ok {
		return nil, nil
	}
	total, err := money.Parse(u.TotalSpent)
	if err != nil {
		return nil, err
	}
	u.TotalSpent = money.Format(total.Add(spent))
	u.LoyaltyPoints += loyaltyPoints
	u.UpdatedAt = s.now().UTC()
	return s.users.get(id), nil
}

func (s *Store) CreateOrder(ctx context.Context, o *domain.Order, items []*domain.OrderItem) (*domain.OrderWithItems, error) {
	row := *o
	row.ID = store.EnsureID(row.ID)
	if row.Status == "" {
		row.Status = commerce.OrderPending
	}
	row.TotalAmount = money.MustNormalize(row.TotalAmount)
	now := s.now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders.ref(row.ID); exists {
		return nil, store.ErrConflict
	}
	s.orders.put(row.ID, &row)
	for _, it := range items {
		item := *it
		item.ID = store.EnsureID(item.ID)
		item.OrderID = row.ID
		item.Price = money.MustNormalize(item.Price)
		s.orderItems.put(item.ID, &item)
	}
	return s.orderWithItemsLocked(row.ID), nil
}

func (s *Store) orderWithItemsLocked(id string) *domain.OrderWithItems {
	o := s.orders.get(id)
	if o == nil {
		return nil
	}
	return &domain.OrderWithItems{
		Order: *o,
		Items: s.orderItems.list(func(it *domain.OrderItem) bool { return it.OrderID == id }),
	}
}

func (s *Store) GetOrder(ctx context.Context, id string) (*domain.OrderWithItems, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orderWithItemsLocked(id), nil
}

func (s *Store) ListUserOrders(ctx context.Context, userID string) ([]*domain.OrderWithItems, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := s.orders.newest(func(o *domain.Order) bool { return o.UserID == userID }, 0)
	out := make([]*domain.OrderWithItems, 0, len(orders))
	for _, o := range orders {
		out = append(out, s.orderWithItemsLocked(o.ID))
	}
	return out, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders.ref(id)
	if !ok {
		return nil, false, nil
	}
	if o.Status != from {
		return s.orders.get(id), false, nil
	}
	o.Status = to
	o.UpdatedAt = s.now().UTC()
	return s.orders.get(id), true, nil
}

func (s *Store) purchaseCountLocked(userID string) int {
	n := 0
	for _, o := range s.orders.list(func(o *domain.Order) bool { return o.UserID == userID }) {
		if o.Status.Purchased() {
			n++
		}
	}
	return n
}
