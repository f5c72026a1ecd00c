package checkout

import (
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
)

// StockViolationDetail exposes the data returned to callers when a product
// does not have enough stock for the requested lines.
type StockViolationDetail struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name,omitempty"`
	AvailableQty int       `json:"available_qty"`
	RequestedQty int       `json:"requested_qty"`
}

// ValidateStock ensures the summed quantity requested per product fits in the
// available stock. Several sales can point at the same product, so lines are
// grouped by ProductID before comparing.
func ValidateStock(lines []Line) error {
	requested := make(map[uuid.UUID]int, len(lines))
	order := make([]uuid.UUID, 0, len(lines))
	byProduct := make(map[uuid.UUID]Line, len(lines))
	for _, line := range lines {
		if _, seen := requested[line.ProductID]; !seen {
			order = append(order, line.ProductID)
			byProduct[line.ProductID] = line
		}
		requested[line.ProductID] += line.Quantity
	}

	var violations []StockViolationDetail
	for _, productID := range order {
		line := byProduct[productID]
		if requested[productID] > line.Available {
			violations = append(violations, StockViolationDetail{
				ProductID:    productID,
				ProductName:  line.ProductName,
				AvailableQty: line.Available,
				RequestedQty: requested[productID],
			})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("insufficient stock for %d product(s)", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}
