package commerce

import (
	"time"

	"github.com/yungbote/botanica-backend/internal/domain/catalog"
)

// CartItem is scoped to an anonymous visitor session rather than a user account.
type CartItem struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID string    `gorm:"not null;index;column:session_id" json:"sessionId"`
	ProductID string    `gorm:"type:uuid;not null;index;column:product_id" json:"productId"`
	Quantity  int       `gorm:"not null;column:quantity" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"createdAt"`
}

func (CartItem) TableName() string { return "cart_item" }

// CartItemWithProduct attaches the referenced product; Product is nil when it no longer exists.
type CartItemWithProduct struct {
	CartItem
	Product *catalog.Product `json:"product"`
}
