package dispatch

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
)

// DispatchDTO is the wire shape of a dispatch request.
type DispatchDTO struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Address   string          `json:"address"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	TotalCost decimal.Decimal `json:"total_cost"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DispatchRequest carries the contact fields. The cost is never client supplied.
type DispatchRequest struct {
	Address  string `json:"address" validate:"required,max=300"`
	Username string `json:"username" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,max=32"`
}

func FromModel(d *models.Dispatch) *DispatchDTO {
	if d == nil {
		return nil
	}
	return &DispatchDTO{
		ID:        d.ID,
		UserID:    d.UserID,
		Address:   d.Address,
		Username:  d.Username,
		Email:     d.Email,
		Phone:     d.Phone,
		TotalCost: d.TotalCost,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func fromModels(rows []models.Dispatch) []DispatchDTO {
	out := make([]DispatchDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
