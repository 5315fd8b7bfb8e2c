package commerce

import (
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/botanica-backend/internal/platform/money"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped},
	OrderShipped:   {OrderDelivered},
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Purchased reports whether the order counts toward the buyer's purchase history.
func (s OrderStatus) Purchased() bool {
	return s == OrderConfirmed || s == OrderShipped || s == OrderDelivered
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              string      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string      `gorm:"type:uuid;not null;index;column:user_id" json:"userId"`
	Status          OrderStatus `gorm:"not null;default:'pending';column:status" json:"status"`
	TotalAmount     string      `gorm:"type:numeric(12,2);not null;column:total_amount" json:"totalAmount"`
	ShippingAddress string      `gorm:"type:text;column:shipping_address" json:"shippingAddress"`
	CreatedAt       time.Time   `gorm:"not null;column:created_at" json:"createdAt"`
	UpdatedAt       time.Time   `gorm:"not null;column:updated_at" json:"updatedAt"`
}

func (Order) TableName() string { return "order_header" }

type OrderItem struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   string `gorm:"type:uuid;not null;index;column:order_id" json:"orderId"`
	ProductID string `gorm:"type:uuid;not null;column:product_id" json:"productId"`
	Quantity  int    `gorm:"not null;column:quantity" json:"quantity"`
	Price     string `gorm:"type:numeric(10,2);not null;column:price" json:"price"`
}

func (OrderItem) TableName() string { return "order_item" }

type OrderWithItems struct {
	Order
	Items []*OrderItem `json:"items"`
}

func (o *Order) AfterFind(tx *gorm.DB) error {
	o.TotalAmount = money.MustNormalize(o.TotalAmount)
	return nil
}

func (i *OrderItem) AfterFind(tx *gorm.DB) error {
	i.Price = money.MustNormalize(i.Price)
	return nil
}
