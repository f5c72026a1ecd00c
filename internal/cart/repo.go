package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/ferremas-backend/internal/repo"
	"github.com/angelmondragon/ferremas-backend/pkg/checkout"
	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
)

const linesQuery = `
SELECT
  ci.id          AS cart_item_id,
  ci.sale_id     AS sale_id,
  s.product_id   AS product_id,
  ii.product_name AS product_name,
  s.price        AS unit_price,
  ci.quantity    AS quantity,
  ii.quantity    AS available
FROM cart_items ci
JOIN sales s ON s.id = ci.sale_id
JOIN inventory_items ii ON ii.id = s.product_id
WHERE ci.user_id = ?
ORDER BY ci.created_at ASC, ci.id ASC
`

// Repository persists cart items and resolves them into priced lines.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{Base: repo.NewBase(tx)}
}

func (r *Repository) Create(ctx context.Context, item *models.CartItem) error {
	return r.DB(ctx).Create(item).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) FindByUserAndSale(ctx context.Context, userID, saleID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB(ctx).Where("user_id = ? AND sale_id = ?", userID, saleID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	if err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) SetQuantity(ctx context.Context, id uuid.UUID, qty int) error {
	return r.DB(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", id).
		Updates(map[string]any{"quantity": qty, "updated_at": time.Now().UTC()}).Error
}

// AddQuantity increments the row in place so concurrent adds do not lose units.
func (r *Repository) AddQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	return r.DB(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Delete(&models.CartItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByUser empties the user's cart and returns the number of rows removed.
func (r *Repository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.DB(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// SaleExists reports whether the sale row is present.
func (r *Repository) SaleExists(ctx context.Context, saleID uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Sale{}).Where("id = ?", saleID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type lineRecord struct {
	CartItemID  uuid.UUID       `gorm:"column:cart_item_id"`
	SaleID      uuid.UUID       `gorm:"column:sale_id"`
	ProductID   uuid.UUID       `gorm:"column:product_id"`
	ProductName string          `gorm:"column:product_name"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price"`
	Quantity    int             `gorm:"column:quantity"`
	Available   int             `gorm:"column:available"`
}

// Lines joins the user's cart with sales and inventory.
func (r *Repository) Lines(ctx context.Context, userID uuid.UUID) ([]checkout.Line, error) {
	var records []lineRecord
	if err := r.DB(ctx).Raw(linesQuery, userID).Scan(&records).Error; err != nil {
		return nil, err
	}
	lines := make([]checkout.Line, 0, len(records))
	for _, rec := range records {
		lines = append(lines, checkout.Line{
			CartItemID:  rec.CartItemID,
			SaleID:      rec.SaleID,
			ProductID:   rec.ProductID,
			ProductName: rec.ProductName,
			UnitPrice:   rec.UnitPrice,
			Quantity:    rec.Quantity,
			Available:   rec.Available,
		})
	}
	return lines, nil
}
