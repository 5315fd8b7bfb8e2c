package dbstore

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/commerce"
	"github.com/yungbote/botanica-backend/internal/platform/money"
)

var purchasedStatuses = []commerce.OrderStatus{
	commerce.OrderConfirmed,
	commerce.OrderShipped,
	commerce.OrderDelivered,
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	row := *u
	row.ID = store.EnsureID(row.ID)
	row.TotalSpent = money.MustNormalize(row.TotalSpent)
	now := s.clock()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	if err := s.checkUserUnique(s.db.WithContext(ctx), row.ID, row.Username, row.Email); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, conflict(err)
	}
	return s.GetUser(ctx, row.ID)
}

// checkUserUnique catches case-only email clashes the unique index would let through.
func (s *Store) checkUserUnique(q *gorm.DB, id, username, email string) error {
	var n int64
	if err := q.Model(&domain.User{}).
		Where("id <> ? AND (LOWER(email) = ? OR username = ?)", id, strings.ToLower(email), username).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return store.ErrConflict
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUser(s.db.WithContext(ctx), id)
}

func (s *Store) getUser(q *gorm.DB, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, nil
	}
	var u domain.User
	found, err := first(q.Where("id = ?", id), &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	found, err := first(s.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)), &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch store.UserPatch) (*domain.User, error) {
	var out *domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.getUser(s.locked(tx), id)
		if err != nil || current == nil {
			return err
		}
		next := *current
		patch.Apply(&next, s.clock())
		if err := s.checkUserUnique(tx, id, next.Username, next.Email); err != nil {
			return err
		}
		if err := tx.Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
			"username":   next.Username,
			"email":      next.Email,
			"password":   next.Password,
			"first_name": next.FirstName,
			"last_name":  next.LastName,
			"updated_at": next.UpdatedAt,
		}).Error; err != nil {
			return conflict(err)
		}
		out, err = s.getUser(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) AddUserRewards(ctx context.Context, id string, loyaltyPoints int, spent decimal.Decimal) (*domain.User, error) {
	var out *domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = s.addUserRewards(tx, id, loyaltyPoints, spent)
		return err
	})
	return out, err
}

func (s *Store) addUserRewards(tx *gorm.DB, id string, loyaltyPoints int, spent decimal.Decimal) (*domain.User, error) {
	if !validID(id) {
		return nil, nil
	}
	res := tx.Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
		"loyalty_points": gorm.Expr("loyalty_points + ?", loyaltyPoints),
		"total_spent":    gorm.Expr("total_spent + ?", money.Format(spent)),
		"updated_at":     s.clock(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.getUser(tx, id)
}

func (s *Store) CreateOrder(ctx context.Context, o *domain.Order, items []*domain.OrderItem) (*domain.OrderWithItems, error) {
	row := *o
	row.ID = store.EnsureID(row.ID)
	if row.Status == "" {
		row.Status = commerce.OrderPending
	}
	row.TotalAmount = money.MustNormalize(row.TotalAmount)
	now := s.clock()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	lines := make([]*domain.OrderItem, 0, len(items))
	for _, it := range items {
		line := *it
		line.ID = store.EnsureID(line.ID)
		line.OrderID = row.ID
		line.Price = money.MustNormalize(line.Price)
		lines = append(lines, &line)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return conflict(err)
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, row.ID)
}

func (s *Store) GetOrder(ctx context.Context, id string) (*domain.OrderWithItems, error) {
	if !validID(id) {
		return nil, nil
	}
	var o domain.Order
	found, err := first(s.db.WithContext(ctx).Where("id = ?", id), &o)
	if err != nil || !found {
		return nil, err
	}
	out, err := s.attachItems(ctx, []*domain.Order{&o})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (s *Store) ListUserOrders(ctx context.Context, userID string) ([]*domain.OrderWithItems, error) {
	if !validID(userID) {
		return []*domain.OrderWithItems{}, nil
	}
	var orders []*domain.Order
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

func (s *Store) attachItems(ctx context.Context, orders []*domain.Order) ([]*domain.OrderWithItems, error) {
	out := make([]*domain.OrderWithItems, 0, len(orders))
	if len(orders) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	var items []*domain.OrderItem
	if err := s.db.WithContext(ctx).Where("order_id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[string][]*domain.OrderItem, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for _, o := range orders {
		lines := byOrder[o.ID]
		if lines == nil {
			lines = []*domain.OrderItem{}
		}
		out = append(out, &domain.OrderWithItems{Order: *o, Items: lines})
	}
	return out, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, bool, error) {
	if !validID(id) {
		return nil, false, nil
	}
	res := s.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": s.clock()})
	if res.Error != nil {
		return nil, false, res.Error
	}
	var o domain.Order
	found, err := first(s.db.WithContext(ctx).Where("id = ?", id), &o)
	if err != nil || !found {
		return nil, false, err
	}
	return &o, res.RowsAffected == 1, nil
}

func (s *Store) purchaseCount(q *gorm.DB, userID string) (int, error) {
	var n int64
	err := q.Model(&domain.Order{}).
		Where("user_id = ? AND status IN ?", userID, purchasedStatuses).
		Count(&n).Error
	return int(n), err
}
