package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one cart row resolved against its sale and inventory item.
type Line struct {
	CartItemID  uuid.UUID
	SaleID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	// Available is the stock on hand for ProductID when the line was loaded.
	Available int
}

// Total returns the line total.
func (l Line) Total() decimal.Decimal {
	return LineTotal(l.UnitPrice, l.Quantity)
}

// LineTotal multiplies a unit price by a quantity.
func LineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}

// SumLines adds every line total.
func SumLines(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Total())
	}
	return total
}
