package sucursales

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/ferremas-backend/internal/repo"
	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
	"github.com/angelmondragon/ferremas-backend/pkg/pagination"
)

// Repository persists branches.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, s *models.Sucursal) error {
	return r.DB(ctx).Create(s).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sucursal, error) {
	var s models.Sucursal
	if err := r.DB(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Sucursal, error) {
	var rows []models.Sucursal
	if err := r.DB(ctx).Scopes(repo.Page(params)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, s *models.Sucursal) error {
	return r.DB(ctx).
		Model(s).
		Select("nombre", "direccion", "telefono", "updated_at").
		Updates(s).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Delete(&models.Sucursal{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
