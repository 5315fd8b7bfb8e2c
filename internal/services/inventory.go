package services

import (
	"context"
	"strings"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/platform/apierr"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

type InventoryService interface {
	List(ctx context.Context, lowStock *bool) ([]*domain.Inventory, error)
	Get(ctx context.Context, productID string) (*domain.Inventory, error)
	Adjust(ctx context.Context, productID string, adj store.InventoryAdjustment) (*domain.Inventory, error)
	Movements(ctx context.Context, productID string) ([]*domain.InventoryMovement, error)
}

type inventoryService struct {
	log       *logger.Logger
	inventory store.InventoryStore
	catalog   store.CatalogStore
}

func NewInventoryService(log *logger.Logger, inventory store.InventoryStore, catalog store.CatalogStore) InventoryService {
	return &inventoryService{
		log:       log.With("service", "InventoryService"),
		inventory: inventory,
		catalog:   catalog,
	}
}

func (s *inventoryService) List(ctx context.Context, lowStock *bool) ([]*domain.Inventory, error) {
	out, err := s.inventory.ListInventory(ctx, store.InventoryFilter{LowStock: lowStock})
	if err != nil {
		return nil, storeErr("list inventory", err)
	}
	return out, nil
}

func (s *inventoryService) Get(ctx context.Context, productID string) (*domain.Inventory, error) {
	inv, err := s.inventory.GetInventory(ctx, productID)
	if err != nil {
		return nil, storeErr("get inventory", err)
	}
	if inv == nil {
		return nil, apierr.NotFound("inventory")
	}
	return inv, nil
}

func (s *inventoryService) Adjust(ctx context.Context, productID string, adj store.InventoryAdjustment) (*domain.Inventory, error) {
	if adj.SetStock == nil && adj.Delta == nil && adj.ReorderLevel == nil {
		return nil, invalid("one of currentStock, delta or reorderLevel is required")
	}
	if adj.SetStock != nil && *adj.SetStock < 0 {
		return nil, invalid("currentStock must not be negative")
	}
	if adj.ReorderLevel != nil && *adj.ReorderLevel < 0 {
		return nil, invalid("reorderLevel must not be negative")
	}
	adj.Reason = strings.TrimSpace(adj.Reason)
	inv, err := s.inventory.AdjustInventory(ctx, productID, adj)
	if err != nil {
		return nil, storeErr("adjust inventory", err)
	}
	if inv == nil {
		return nil, apierr.NotFound("product")
	}
	syncInStock(ctx, s.log, s.catalog, inv)
	s.log.Info("Inventory adjusted", "product_id", productID, "current_stock", inv.CurrentStock, "reserved_stock", inv.ReservedStock)
	return inv, nil
}

func (s *inventoryService) Movements(ctx context.Context, productID string) ([]*domain.InventoryMovement, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, storeErr("get product", err)
	}
	if p == nil {
		return nil, apierr.NotFound("product")
	}
	out, err := s.inventory.ListInventoryMovements(ctx, productID)
	if err != nil {
		return nil, storeErr("list inventory movements", err)
	}
	return out, nil
}

// syncInStock keeps the catalog flag equal to "units available". Failures are
// logged; the stock change itself has already been committed.
func syncInStock(ctx context.Context, log *logger.Logger, catalog store.CatalogStore, inv *domain.Inventory) {
	if inv == nil {
		return
	}
	if _, err := catalog.SetProductInStock(ctx, inv.ProductID, inv.Available() > 0); err != nil {
		log.Warn("Failed to sync product stock flag", "product_id", inv.ProductID, "error", err)
	}
}

// refreshInStock re-reads the inventory row before syncing.
func refreshInStock(ctx context.Context, log *logger.Logger, catalog store.CatalogStore, inventory store.InventoryStore, productID string) {
	inv, err := inventory.GetInventory(ctx, productID)
	if err != nil {
		log.Warn("Failed to read inventory for stock flag", "product_id", productID, "error", err)
		return
	}
	syncInStock(ctx, log, catalog, inv)
}
