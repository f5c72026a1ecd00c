package sucursales

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
	"github.com/angelmondragon/ferremas-backend/pkg/logger"
	"github.com/angelmondragon/ferremas-backend/pkg/pagination"
	"github.com/angelmondragon/ferremas-backend/pkg/types"
)

const (
	notFoundMessage = "sucursal not found"
	deletedMessage  = "Sucursal deleted"
)

// Service manages store branches. Callers are restricted to Administrador at
// the router.
type Service interface {
	Create(ctx context.Context, req SucursalRequest) (*SucursalDTO, error)
	List(ctx context.Context, params pagination.Params) ([]SucursalDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*SucursalDTO, error)
	Update(ctx context.Context, id uuid.UUID, req SucursalRequest) (*SucursalDTO, error)
	Delete(ctx context.Context, id uuid.UUID) (*types.DetailMessage, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sucursales repository is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, req SucursalRequest) (*SucursalDTO, error) {
	row := &models.Sucursal{}
	if err := applyRequest(row, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create sucursal")
	}
	ctx = s.logg.WithField(ctx, "sucursal_id", row.ID.String())
	s.logg.Info(ctx, "sucursal created")
	return FromModel(row), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]SucursalDTO, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sucursales")
	}
	out := make([]SucursalDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SucursalDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(row), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req SucursalRequest) (*SucursalDTO, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyRequest(row, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update sucursal")
	}
	return FromModel(row), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (*types.DetailMessage, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete sucursal")
	}
	ctx = s.logg.WithField(ctx, "sucursal_id", id.String())
	s.logg.Info(ctx, "sucursal deleted")
	return &types.DetailMessage{Detail: deletedMessage}, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Sucursal, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sucursal")
	}
	return row, nil
}

func applyRequest(row *models.Sucursal, req SucursalRequest) error {
	nombre := strings.TrimSpace(req.Nombre)
	direccion := strings.TrimSpace(req.Direccion)
	telefono := strings.TrimSpace(req.Telefono)
	if nombre == "" || direccion == "" || telefono == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "nombre, direccion and telefono are required")
	}
	row.Nombre = nombre
	row.Direccion = direccion
	row.Telefono = telefono
	return nil
}
