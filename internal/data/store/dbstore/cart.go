package dbstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
)

func (s *Store) ListCartItems(ctx context.Context, sessionID string) ([]*domain.CartItemWithProduct, error) {
	var items []*domain.CartItem
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.CartItemWithProduct, 0, len(items))
	if len(items) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	var products []*domain.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, it := range items {
		out = append(out, &domain.CartItemWithProduct{CartItem: *it, Product: byID[it.ProductID]})
	}
	return out, nil
}

func (s *Store) GetCartItem(ctx context.Context, sessionID, id string) (*domain.CartItem, error) {
	if !validID(id) {
		return nil, nil
	}
	var it domain.CartItem
	found, err := first(s.db.WithContext(ctx).Where("id = ? AND session_id = ?", id, sessionID), &it)
	if err != nil || !found {
		return nil, err
	}
	return &it, nil
}

// AddToCart inserts a line or, when the session already holds the product,
// adds to its quantity in the same statement.
func (s *Store) AddToCart(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	if err := store.ValidateCartQuantity(item.Quantity); err != nil {
		return nil, err
	}
	row := *item
	row.ID = store.EnsureID(row.ID)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.clock()
	}
	q := s.db.WithContext(ctx)
	if err := q.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_item.quantity + excluded.quantity"),
		}),
	}).Create(&row).Error; err != nil {
		return nil, err
	}
	var it domain.CartItem
	if err := q.Where("session_id = ? AND product_id = ?", item.SessionID, item.ProductID).
		Take(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *Store) UpdateCartItem(ctx context.Context, sessionID, id string, quantity int) (*domain.CartItem, error) {
	if err := store.ValidateCartQuantity(quantity); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, nil
	}
	res := s.db.WithContext(ctx).Model(&domain.CartItem{}).
		Where("id = ? AND session_id = ?", id, sessionID).
		Update("quantity", quantity)
	if res.Error != nil {
		return nil, res.Error
	}
	return s.GetCartItem(ctx, sessionID, id)
}

func (s *Store) RemoveFromCart(ctx context.Context, sessionID, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Where("id = ? AND session_id = ?", id, sessionID).
		Delete(&domain.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) ClearCart(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&domain.CartItem{}).Error
}
