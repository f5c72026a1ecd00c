package receipts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/ferremas-backend/internal/policy"
	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
	"github.com/angelmondragon/ferremas-backend/pkg/pagination"
)

// Service is the read side of issued boletas.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]BoletaDTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*BoletaDTO, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("receipts repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]BoletaDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list boletas")
	}
	return fromModels(rows), nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*BoletaDTO, error) {
	boleta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "boleta not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load boleta")
	}
	if err := policy.EnsureOwner(userID, boleta, "boleta"); err != nil {
		return nil, err
	}
	return FromModel(boleta), nil
}
