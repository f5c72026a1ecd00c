package models

import (
	"time"

	"github.com/angelmondragon/ferremas-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment records an amount owed by a user. Reference holds the checkout buy
// order when the payment was opened by a checkout session.
type Payment struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Amount    decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null;check:payments_amount_check,amount > 0"`
	Status    enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'pending';check:payments_status_check,status IN ('pending', 'completed', 'failed')"`
	Reference *string             `gorm:"column:reference;uniqueIndex"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}

func (p Payment) OwnerID() uuid.UUID { return p.UserID }
