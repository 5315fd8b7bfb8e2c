package commerce

import "time"

// Inventory holds on-hand and reserved stock for one product. 0 <= ReservedStock <= CurrentStock.
type Inventory struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID     string    `gorm:"type:uuid;not null;uniqueIndex;column:product_id" json:"productId"`
	CurrentStock  int       `gorm:"not null;default:0;column:current_stock" json:"currentStock"`
	ReservedStock int       `gorm:"not null;default:0;column:reserved_stock" json:"reservedStock"`
	ReorderLevel  int       `gorm:"not null;default:0;column:reorder_level" json:"reorderLevel"`
	UpdatedAt     time.Time `gorm:"not null;column:updated_at" json:"updatedAt"`
}

func (Inventory) TableName() string { return "inventory" }

func (i *Inventory) Available() int { return i.CurrentStock - i.ReservedStock }

func (i *Inventory) LowStock() bool { return i.Available() <= i.ReorderLevel }

type MovementType string

const (
	MovementRestock     MovementType = "restock"
	MovementAdjustment  MovementType = "adjustment"
	MovementReservation MovementType = "reservation"
	MovementRelease     MovementType = "release"
	MovementSale        MovementType = "sale"
)

// InventoryMovement is the audit row paired with every stock mutation. Reservations and
// releases leave on-hand stock untouched (NewStock == PreviousStock); the reserved
// columns carry the change.
type InventoryMovement struct {
	ID               string       `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID        string       `gorm:"type:uuid;not null;index;column:product_id" json:"productId"`
	OrderID          *string      `gorm:"type:uuid;column:order_id" json:"orderId,omitempty"`
	MovementType     MovementType `gorm:"not null;column:movement_type" json:"movementType"`
	Quantity         int          `gorm:"not null;column:quantity" json:"quantity"`
	PreviousStock    int          `gorm:"not null;column:previous_stock" json:"previousStock"`
	NewStock         int          `gorm:"not null;column:new_stock" json:"newStock"`
	PreviousReserved int          `gorm:"not null;column:previous_reserved" json:"previousReserved"`
	NewReserved      int          `gorm:"not null;column:new_reserved" json:"newReserved"`
	Reason           string       `gorm:"column:reason" json:"reason"`
	CreatedAt        time.Time    `gorm:"not null;index;column:created_at" json:"createdAt"`
}

func (InventoryMovement) TableName() string { return "inventory_movement" }
