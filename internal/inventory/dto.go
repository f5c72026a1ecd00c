package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
)

// ItemDTO is the wire shape of an inventory item.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductName string          `json:"product_name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemRequest is used for both create and full update.
type ItemRequest struct {
	ProductName string          `json:"product_name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	Quantity    *int            `json:"quantity" validate:"required,gte=0"`
}

// WithdrawResult reports the outcome of a stock withdrawal. Deleted is set
// when the withdrawal consumed the remaining stock and the row was removed.
type WithdrawResult struct {
	Item      *ItemDTO `json:"item"`
	Withdrawn int      `json:"withdrawn"`
	Deleted   bool     `json:"deleted"`
}

func FromModel(item *models.InventoryItem) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:          item.ID,
		ProductName: item.ProductName,
		Description: item.Description,
		Price:       item.Price,
		Quantity:    item.Quantity,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func fromModels(rows []models.InventoryItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
