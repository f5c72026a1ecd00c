package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/ferremas-backend/internal/payments"
	"github.com/angelmondragon/ferremas-backend/internal/receipts"
)

// SessionDTO is the placeholder payment session handed to the client. The
// gateway URL and token are mock values taken from configuration.
type SessionDTO struct {
	URL       string          `json:"url"`
	Token     string          `json:"token"`
	BuyOrder  string          `json:"buy_order"`
	SessionID string          `json:"session_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	ReturnURL string          `json:"return_url"`
	PaymentID uuid.UUID       `json:"payment_id"`
}

// ConfirmRequest completes the checkout opened under BuyOrder.
type ConfirmRequest struct {
	BuyOrder string `json:"buy_order" validate:"required,max=64"`
}

// ConfirmationDTO is returned once the boleta is issued.
type ConfirmationDTO struct {
	Boleta  *receipts.BoletaDTO  `json:"boleta"`
	Payment *payments.PaymentDTO `json:"payment"`
}
