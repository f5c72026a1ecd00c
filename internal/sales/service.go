package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
	"github.com/angelmondragon/ferremas-backend/pkg/logger"
	"github.com/angelmondragon/ferremas-backend/pkg/pagination"
)

const (
	saleNotFoundMessage    = "sale not found"
	productNotFoundMessage = "product not found"
)

// Service exposes the sale record operations used by Vendedor users.
type Service interface {
	Create(ctx context.Context, req CreateSaleRequest) (*SaleDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*SaleDTO, error)
	List(ctx context.Context, params pagination.Params) ([]SaleDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateSaleRequest) (*SaleDTO, error)
	Delete(ctx context.Context, id uuid.UUID) (*SaleDTO, error)
}

type saleRepository interface {
	Create(ctx context.Context, sale *models.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, params pagination.Params) ([]models.Sale, error)
	Update(ctx context.Context, sale *models.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindProduct(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
}

type service struct {
	repo saleRepository
	logg *logger.Logger
}

func NewService(repo saleRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, req CreateSaleRequest) (*SaleDTO, error) {
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	product, err := s.product(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	sale := &models.Sale{ProductID: product.ID, Price: req.Price.Round(2)}
	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create sale")
	}
	sale.Product = product

	ctx = s.logg.WithFields(ctx, map[string]any{"sale_id": sale.ID.String(), "product_id": product.ID.String()})
	s.logg.Info(ctx, "sale created")
	return FromModel(sale), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SaleDTO, error) {
	sale, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(sale), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]SaleDTO, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sales")
	}
	return fromModels(rows), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateSaleRequest) (*SaleDTO, error) {
	sale, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
		sale.Price = req.Price.Round(2)
	}
	if req.ProductID != nil && *req.ProductID != sale.ProductID {
		product, err := s.product(ctx, *req.ProductID)
		if err != nil {
			return nil, err
		}
		sale.ProductID = product.ID
		sale.Product = product
	}
	if err := s.repo.Update(ctx, sale); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update sale")
	}
	return FromModel(sale), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (*SaleDTO, error) {
	sale, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, saleNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete sale")
	}
	ctx = s.logg.WithField(ctx, "sale_id", id.String())
	s.logg.Info(ctx, "sale deleted")
	return FromModel(sale), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, saleNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sale")
	}
	return sale, nil
}

func (s *service) product(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, productNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}
	return nil
}
