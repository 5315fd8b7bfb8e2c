package memstore

import (
	"context"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/domain/commerce"
)

func (s *Store) ListInventory(ctx context.Context, f store.InventoryFilter) ([]*domain.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inventory.list(f.Matches), nil
}

func (s *Store) GetInventory(ctx context.Context, productID string) (*domain.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inventory.get(productID), nil
}

func (s *Store) AdjustInventory(ctx context.Context, productID string, adj store.InventoryAdjustment) (*domain.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.inventory.ref(productID)
	if !ok {
		if _, known := s.products.ref(productID); !known {
			return nil, nil
		}
		s.inventory.put(productID, &domain.Inventory{
			ID:        store.EnsureID(""),
			ProductID: productID,
			UpdatedAt: s.now().UTC(),
		})
		inv, _ = s.inventory.ref(productID)
	}

	next, movementType := adj.Resolve(inv.CurrentStock)
	if err := store.ValidateStock(next, inv.ReservedStock); err != nil {
		return nil, err
	}
	if adj.ReorderLevel != nil {
		inv.ReorderLevel = *adj.ReorderLevel
	}
	if next != inv.CurrentStock {
		s.appendMovementLocked(&domain.InventoryMovement{
			ProductID:        productID,
			MovementType:     movementType,
			Quantity:         next - inv.CurrentStock,
			PreviousStock:    inv.CurrentStock,
			NewStock:         next,
			PreviousReserved: inv.ReservedStock,
			NewReserved:      inv.ReservedStock,
			Reason:           adj.Reason,
		})
		inv.CurrentStock = next
	}
	inv.UpdatedAt = s.now().UTC()
	return s.inventory.get(productID), nil
}

func (s *Store) ReserveStock(ctx context.Context, productID string, qty int, orderID string) (bool, error) {
	if qty <= 0 {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.inventory.ref(productID)
	if !ok || inv.Available() < qty {
		return false, nil
	}
	s.appendMovementLocked(&domain.InventoryMovement{
		ProductID:        productID,
		OrderID:          optional(orderID),
		MovementType:     commerce.MovementReservation,
		Quantity:         qty,
		PreviousStock:    inv.CurrentStock,
		NewStock:         inv.CurrentStock,
		PreviousReserved: inv.ReservedStock,
		NewReserved:      inv.ReservedStock + qty,
		Reason:           "order reservation",
	})
	inv.ReservedStock += qty
	inv.UpdatedAt = s.now().UTC()
	return true, nil
}

func (s *Store) ReleaseStock(ctx context.Context, productID string, qty int, orderID string) (bool, error) {
	if qty <= 0 {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.inventory.ref(productID)
	if !ok || inv.ReservedStock == 0 {
		return false, nil
	}
	released := qty
	if released > inv.ReservedStock {
		released = inv.ReservedStock
	}
	s.appendMovementLocked(&domain.InventoryMovement{
		ProductID:        productID,
		OrderID:          optional(orderID),
		MovementType:     commerce.MovementRelease,
		Quantity:         -released,
		PreviousStock:    inv.CurrentStock,
		NewStock:         inv.CurrentStock,
		PreviousReserved: inv.ReservedStock,
		NewReserved:      inv.ReservedStock - released,
		Reason:           "reservation released",
	})
	inv.ReservedStock -= released
	inv.UpdatedAt = s.now().UTC()
	return true, nil
}

func (s *Store) CommitStock(ctx context.Context, productID string, qty int, orderID string) (bool, error) {
	if qty <= 0 {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.inventory.ref(productID)
	if !ok || inv.ReservedStock < qty {
		return false, nil
	}
	s.appendMovementLocked(&domain.InventoryMovement{
		ProductID:        productID,
		OrderID:          optional(orderID),
		MovementType:     commerce.MovementSale,
		Quantity:         -qty,
		PreviousStock:    inv.CurrentStock,
		NewStock:         inv.CurrentStock - qty,
		PreviousReserved: inv.ReservedStock,
		NewReserved:      inv.ReservedStock - qty,
		Reason:           "order fulfilled",
	})
	inv.CurrentStock -= qty
	inv.ReservedStock -= qty
	inv.UpdatedAt = s.now().UTC()
	return true, nil
}

func (s *Store) ListInventoryMovements(ctx context.Context, productID string) ([]*domain.InventoryMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.movements.newest(func(m *domain.InventoryMovement) bool { return m.ProductID == productID }, 0), nil
}

func (s *Store) appendMovementLocked(m *domain.InventoryMovement) {
	m.ID = store.EnsureID(m.ID)
	m.CreatedAt = s.now().UTC()
	s.movements.put(m.ID, m)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
