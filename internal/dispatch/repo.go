package dispatch

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/ferremas-backend/internal/repo"
	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
	"github.com/angelmondragon/ferremas-backend/pkg/pagination"
)

// Repository persists dispatch requests.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, d *models.Dispatch) error {
	return r.DB(ctx).Create(d).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Dispatch, error) {
	var d models.Dispatch
	if err := r.DB(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Dispatch, error) {
	var rows []models.Dispatch
	if err := r.DB(ctx).Where("user_id = ?", userID).Scopes(repo.Page(params)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateContact writes the contact columns only; total_cost is left alone.
func (r *Repository) UpdateContact(ctx context.Context, d *models.Dispatch) error {
	return r.DB(ctx).
		Model(d).
		Select("address", "username", "email", "phone", "updated_at").
		Updates(d).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Delete(&models.Dispatch{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
