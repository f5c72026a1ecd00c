package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Boleta is the receipt issued when a checkout is confirmed.
type Boleta struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	TransactionID string          `gorm:"column:transaction_id;not null;uniqueIndex"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null;check:boletas_amount_check,amount > 0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`

	User  *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Lines []BoletaLine `gorm:"foreignKey:BoletaID;constraint:OnDelete:CASCADE"`
}

func (Boleta) TableName() string { return "boletas" }

func (b *Boleta) BeforeCreate(*gorm.DB) error {
	assignID(&b.ID)
	return nil
}

func (b Boleta) OwnerID() uuid.UUID { return b.UserID }

// BoletaLine snapshots one confirmed cart line.
type BoletaLine struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	BoletaID    uuid.UUID       `gorm:"column:boleta_id;type:uuid;not null;index"`
	SaleID      uuid.UUID       `gorm:"column:sale_id;type:uuid;not null"`
	ProductName string          `gorm:"column:product_name;not null"`
	Quantity    int             `gorm:"column:quantity;not null;check:boleta_lines_quantity_check,quantity > 0"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal   decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
}

func (BoletaLine) TableName() string { return "boleta_lines" }

func (l *BoletaLine) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}
