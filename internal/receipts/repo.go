package receipts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/ferremas-backend/internal/repo"
	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
	"github.com/angelmondragon/ferremas-backend/pkg/pagination"
)

// Repository persists boletas and their lines.
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

// Create inserts the boleta together with its lines.
func (r *Repository) Create(ctx context.Context, boleta *models.Boleta) error {
	return r.DB(ctx).Create(boleta).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Boleta, error) {
	var boleta models.Boleta
	if err := r.DB(ctx).Preload("Lines").First(&boleta, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &boleta, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Boleta, error) {
	var rows []models.Boleta
	if err := r.DB(ctx).
		Preload("Lines").
		Where("user_id = ?", userID).
		Scopes(repo.Page(params)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
