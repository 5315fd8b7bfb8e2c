package dbstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/commerce"
)

func (s *Store) ListInventory(ctx context.Context, f store.InventoryFilter) ([]*domain.Inventory, error) {
	q := s.db.WithContext(ctx).Model(&domain.Inventory{})
	if f.LowStock != nil {
		if *f.LowStock {
			q = q.Where("current_stock - reserved_stock <= reorder_level")
		} else {
			q = q.Where("current_stock - reserved_stock > reorder_level")
		}
	}
	var out []*domain.Inventory
	if err := q.Order("product_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetInventory(ctx context.Context, productID string) (*domain.Inventory, error) {
	return s.getInventory(s.db.WithContext(ctx), productID)
}

func (s *Store) getInventory(q *gorm.DB, productID string) (*domain.Inventory, error) {
	if !validID(productID) {
		return nil, nil
	}
	var inv domain.Inventory
	found, err := first(q.Where("product_id = ?", productID), &inv)
	if err != nil || !found {
		return nil, err
	}
	return &inv, nil
}

// stockChange mutates a locked inventory row. It returns the movement to record,
// or nil with ok=false to leave the row untouched.
type stockChange func(inv *domain.Inventory) (m *domain.InventoryMovement, ok bool, err error)

// mutateStock applies change to the product's locked row and records its
// movement in one transaction. Used where the new value depends on the old one
// in ways a single conditional UPDATE cannot express.
func (s *Store) mutateStock(ctx context.Context, productID string, change stockChange) (*domain.Inventory, bool, error) {
	var (
		out     *domain.Inventory
		changed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := s.getInventory(s.locked(tx), productID)
		if err != nil || inv == nil {
			return err
		}
		m, ok, err := change(inv)
		if err != nil {
			return err
		}
		if !ok {
			out = inv
			return nil
		}
		now := s.clock()
		inv.UpdatedAt = now
		if err := tx.Model(&domain.Inventory{}).Where("id = ?", inv.ID).Updates(map[string]any{
			"current_stock":  inv.CurrentStock,
			"reserved_stock": inv.ReservedStock,
			"reorder_level":  inv.ReorderLevel,
			"updated_at":     now,
		}).Error; err != nil {
			return err
		}
		if m != nil {
			m.ID = store.EnsureID(m.ID)
			m.ProductID = productID
			m.CreatedAt = now
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		out, changed = inv, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, changed, nil
}

func (s *Store) AdjustInventory(ctx context.Context, productID string, adj store.InventoryAdjustment) (*domain.Inventory, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil || product == nil {
		return nil, err
	}
	seedRow := &domain.Inventory{ID: store.EnsureID(""), ProductID: productID, UpdatedAt: s.clock()}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "product_id"}}, DoNothing: true}).
		Create(seedRow).Error; err != nil {
		return nil, err
	}
	inv, _, err := s.mutateStock(ctx, productID, func(inv *domain.Inventory) (*domain.InventoryMovement, bool, error) {
		next, movementType := adj.Resolve(inv.CurrentStock)
		if err := store.ValidateStock(next, inv.ReservedStock); err != nil {
			return nil, false, err
		}
		if adj.ReorderLevel != nil {
			inv.ReorderLevel = *adj.ReorderLevel
		}
		var m *domain.InventoryMovement
		if next != inv.CurrentStock {
			m = &domain.InventoryMovement{
				MovementType:     movementType,
				Quantity:         next - inv.CurrentStock,
				PreviousStock:    inv.CurrentStock,
				NewStock:         next,
				PreviousReserved: inv.ReservedStock,
				NewReserved:      inv.ReservedStock,
				Reason:           adj.Reason,
			}
			inv.CurrentStock = next
		}
		return m, true, nil
	})
	return inv, err
}

// ReserveStock is a single conditional UPDATE; zero rows affected means the
// product is unknown or short on available stock.
func (s *Store) ReserveStock(ctx context.Context, productID string, qty int, orderID string) (bool, error) {
	if qty <= 0 || !validID(productID) {
		return false, nil
	}
	return s.conditionalStock(ctx, productID, orderID, qty, commerce.MovementReservation,
		"current_stock - reserved_stock >= ?",
		map[string]any{"reserved_stock": gorm.Expr("reserved_stock + ?", qty)},
	)
}

func (s *Store) ReleaseStock(ctx context.Context, productID string, qty int, orderID string) (bool, error) {
	if qty <= 0 {
		return false, nil
	}
	_, ok, err := s.mutateStock(ctx, productID, func(inv *domain.Inventory) (*domain.InventoryMovement, bool, error) {
		if inv.ReservedStock == 0 {
			return nil, false, nil
		}
		released := min(qty, inv.ReservedStock)
		m := &domain.InventoryMovement{
			OrderID:          optional(orderID),
			MovementType:     commerce.MovementRelease,
			Quantity:         -released,
			PreviousStock:    inv.CurrentStock,
			NewStock:         inv.CurrentStock,
			PreviousReserved: inv.ReservedStock,
			NewReserved:      inv.ReservedStock - released,
			Reason:           "reservation released",
		}
		inv.ReservedStock -= released
		return m, true, nil
	})
	return ok, err
}

func (s *Store) CommitStock(ctx context.Context, productID string, qty int, orderID string) (bool, error) {
	if qty <= 0 || !validID(productID) {
		return false, nil
	}
	return s.conditionalStock(ctx, productID, orderID, qty, commerce.MovementSale,
		"reserved_stock >= ?",
		map[string]any{
			"current_stock":  gorm.Expr("current_stock - ?", qty),
			"reserved_stock": gorm.Expr("reserved_stock - ?", qty),
		},
	)
}

// conditionalStock applies updates guarded by cond (bound to qty) and, when a
// row matched, records the movement reconstructed from the post-update row.
func (s *Store) conditionalStock(ctx context.Context, productID, orderID string, qty int, kind commerce.MovementType, cond string, updates map[string]any) (bool, error) {
	applied := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.clock()
		updates["updated_at"] = now
		res := tx.Model(&domain.Inventory{}).
			Where("product_id = ? AND "+cond, productID, qty).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		inv, err := s.getInventory(tx, productID)
		if err != nil {
			return err
		}
		m := &domain.InventoryMovement{
			ID:           store.EnsureID(""),
			ProductID:    productID,
			OrderID:      optional(orderID),
			MovementType: kind,
			NewStock:     inv.CurrentStock,
			NewReserved:  inv.ReservedStock,
			CreatedAt:    now,
		}
		switch kind {
		case commerce.MovementReservation:
			m.Quantity = qty
			m.PreviousStock = inv.CurrentStock
			m.PreviousReserved = inv.ReservedStock - qty
			m.Reason = "order reservation"
		case commerce.MovementSale:
			m.Quantity = -qty
			m.PreviousStock = inv.CurrentStock + qty
			m.PreviousReserved = inv.ReservedStock + qty
			m.Reason = "order fulfilled"
		}
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (s *Store) ListInventoryMovements(ctx context.Context, productID string) ([]*domain.InventoryMovement, error) {
	out := []*domain.InventoryMovement{}
	if !validID(productID) {
		return out, nil
	}
	if err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
