package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/ferremas-backend/internal/repo"
	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
	"github.com/angelmondragon/ferremas-backend/pkg/pagination"
)

// ErrInsufficientStock is returned when a guarded decrement matches no row
// because the requested quantity exceeds the stock on hand.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository persists inventory items.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

func (r *Repository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.DB(ctx).Create(item).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.DB(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	if err := r.DB(ctx).Scopes(repo.Page(params)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update overwrites every editable column, including zero values.
func (r *Repository) Update(ctx context.Context, item *models.InventoryItem) error {
	return r.DB(ctx).
		Model(item).
		Select("product_name", "description", "price", "quantity", "updated_at").
		Updates(item).Error
}

// Decrement subtracts qty from the item's stock only when enough is on hand.
// A missing row yields gorm.ErrRecordNotFound and a short row yields
// ErrInsufficientStock.
func (r *Repository) Decrement(ctx context.Context, id uuid.UUID, qty int) error {
	res := r.DB(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := r.DB(ctx).Model(&models.InventoryItem{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrInsufficientStock
}

// DeleteIfEmpty removes the row when its stock reached zero and reports
// whether a row was deleted.
func (r *Repository) DeleteIfEmpty(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Where("id = ? AND quantity = 0", id).Delete(&models.InventoryItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
