package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is a quantity of a sale held in a user's cart.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index;uniqueIndex:cart_items_user_sale_key"`
	SaleID    uuid.UUID `gorm:"column:sale_id;type:uuid;not null;uniqueIndex:cart_items_user_sale_key"`
	Quantity  int       `gorm:"column:quantity;not null;check:cart_items_quantity_check,quantity > 0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Sale *Sale `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

func (CartItem) TableName() string { return "cart_items" }

func (c *CartItem) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (c CartItem) OwnerID() uuid.UUID { return c.UserID }
