package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/ferremas-backend/pkg/checkout"
	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
)

// ItemDTO is a single cart row.
type ItemDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	SaleID    uuid.UUID `json:"sale_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddItemRequest puts a sale in the caller's cart.
type AddItemRequest struct {
	SaleID   uuid.UUID `json:"sale_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"gt=0"`
}

// UpdateQuantityRequest sets the quantity of an existing cart row.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}

// SummaryLineDTO is one priced cart line.
type SummaryLineDTO struct {
	CartItemID  uuid.UUID       `json:"cart_item_id"`
	SaleID      uuid.UUID       `json:"sale_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// SummaryDTO lists the caller's priced cart with its total.
type SummaryDTO struct {
	Items       []SummaryLineDTO `json:"items"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
}

// ClearResult reports how many rows a cart clear removed.
type ClearResult struct {
	Removed int64 `json:"removed"`
}

func FromModel(item *models.CartItem) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:        item.ID,
		UserID:    item.UserID,
		SaleID:    item.SaleID,
		Quantity:  item.Quantity,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func fromModels(rows []models.CartItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

// NewSummary prices the resolved lines.
func NewSummary(lines []checkout.Line) SummaryDTO {
	items := make([]SummaryLineDTO, 0, len(lines))
	for _, line := range lines {
		items = append(items, SummaryLineDTO{
			CartItemID:  line.CartItemID,
			SaleID:      line.SaleID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Price:       line.UnitPrice,
			Total:       line.Total(),
		})
	}
	return SummaryDTO{Items: items, TotalAmount: checkout.SumLines(lines)}
}
