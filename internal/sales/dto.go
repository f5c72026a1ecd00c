package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
)

// SaleDTO is the wire shape of a sale record.
type SaleDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CreateSaleRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Price     decimal.Decimal `json:"price"`
}

// UpdateSaleRequest changes the price and/or the product. Nil fields are kept.
type UpdateSaleRequest struct {
	ProductID *uuid.UUID       `json:"product_id,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

func FromModel(sale *models.Sale) *SaleDTO {
	if sale == nil {
		return nil
	}
	dto := &SaleDTO{
		ID:        sale.ID,
		ProductID: sale.ProductID,
		Price:     sale.Price,
		CreatedAt: sale.CreatedAt,
		UpdatedAt: sale.UpdatedAt,
	}
	if sale.Product != nil {
		dto.ProductName = sale.Product.ProductName
	}
	return dto
}

func fromModels(rows []models.Sale) []SaleDTO {
	out := make([]SaleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
