package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Dispatch is a shipping request. TotalCost always carries the configured fee.
type Dispatch struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	Address   string          `gorm:"column:address;not null"`
	Username  string          `gorm:"column:username;not null"`
	Email     string          `gorm:"column:email;not null"`
	Phone     string          `gorm:"column:phone;not null"`
	TotalCost decimal.Decimal `gorm:"column:total_cost;type:numeric(12,2);not null;check:dispatches_total_cost_check,total_cost >= 0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Dispatch) TableName() string { return "dispatches" }

func (d *Dispatch) BeforeCreate(*gorm.DB) error {
	assignID(&d.ID)
	return nil
}

func (d Dispatch) OwnerID() uuid.UUID { return d.UserID }
