package receipts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
)

// BoletaDTO is the receipt returned to the buyer.
type BoletaDTO struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
	Lines         []LineDTO       `json:"lines"`
}

type LineDTO struct {
	SaleID      uuid.UUID       `json:"sale_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

func FromModel(b *models.Boleta) *BoletaDTO {
	if b == nil {
		return nil
	}
	lines := make([]LineDTO, 0, len(b.Lines))
	for _, line := range b.Lines {
		lines = append(lines, LineDTO{
			SaleID:      line.SaleID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal,
		})
	}
	return &BoletaDTO{
		ID:            b.ID,
		UserID:        b.UserID,
		TransactionID: b.TransactionID,
		Amount:        b.Amount,
		CreatedAt:     b.CreatedAt,
		Lines:         lines,
	}
}

func fromModels(rows []models.Boleta) []BoletaDTO {
	out := make([]BoletaDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
