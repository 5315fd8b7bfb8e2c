package commerce

import (
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/botanica-backend/internal/platform/money"
)

type User struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username      string    `gorm:"not null;uniqueIndex;column:username" json:"username"`
	Email         string    `gorm:"not null;uniqueIndex;column:email" json:"email"`
	Password      string    `gorm:"not null;column:password" json:"-"`
	FirstName     string    `gorm:"column:first_name" json:"firstName"`
	LastName      string    `gorm:"column:last_name" json:"lastName"`
	LoyaltyPoints int       `gorm:"not null;default:0;column:loyalty_points" json:"loyaltyPoints"`
	TotalSpent    string    `gorm:"type:numeric(12,2);not null;default:0;column:total_spent" json:"totalSpent"`
	CreatedAt     time.Time `gorm:"not null;column:created_at" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null;column:updated_at" json:"updatedAt"`
}

func (User) TableName() string { return "app_user" }

func (u *User) AfterFind(tx *gorm.DB) error {
	u.TotalSpent = money.MustNormalize(u.TotalSpent)
	return nil
}
