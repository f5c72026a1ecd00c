package inventory

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
)

const (
	itemNotFoundMessage  = "inventory item not found"
	overWithdrawMessage  = "cannot delete more items than are available"
	invalidWithdrawCount = "quantity must be greater than zero"
)

// Service exposes the warehouse catalog operations.
type Service interface {
	Create(ctx context.Context, req ItemRequest) (*ItemDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	List(ctx context.Context, params pagination.Params) ([]ItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, req ItemRequest) (*ItemDTO, error)
	Withdraw(ctx context.Context, id uuid.UUID, quantity *int) (*WithdrawResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type withdrawRecorder interface {
	InventoryWithdrawn(units int)
}

// ServiceParams bundles the inventory service dependencies.
type ServiceParams struct {
	Repo    *Repository
	Tx      txRunner
	Metrics withdrawRecorder
	Logger  *logger.Logger
}

type service struct {
	repo    *Repository
	tx      txRunner
	metrics withdrawRecorder
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: params.Repo, tx: params.Tx, metrics: params.Metrics, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, req ItemRequest) (*ItemDTO, error) {
	item := &models.InventoryItem{}
	if err := applyRequest(item, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inventory item")
	}
	ctx = s.logg.WithField(ctx, "inventory_item_id", item.ID.String())
	s.logg.Info(ctx, "inventory item created")
	return FromModel(item), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return FromModel(item), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]ItemDTO, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory")
	}
	return fromModels(rows), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req ItemRequest) (*ItemDTO, error) {
	item, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if err := applyRequest(item, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inventory item")
	}
	return FromModel(item), nil
}

// Withdraw removes quantity units from stock. A nil quantity withdraws
// everything that is left. When the stock reaches zero the row is deleted.
func (s *service) Withdraw(ctx context.Context, id uuid.UUID, quantity *int) (*WithdrawResult, error) {
	if quantity != nil && *quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidWithdrawCount)
	}

	var result WithdrawResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		current, err := s.load(ctx, txRepo, id)
		if err != nil {
			return err
		}

		units := current.Quantity
		if quantity != nil {
			units = *quantity
		}
		if units > current.Quantity {
			return pkgerrors.New(pkgerrors.CodeValidation, overWithdrawMessage).WithDetails(map[string]any{
				"available_qty": current.Quantity,
				"requested_qty": units,
			})
		}

		if units > 0 {
			if err := txRepo.Decrement(ctx, id, units); err != nil {
				switch {
				case errors.Is(err, ErrInsufficientStock):
					return pkgerrors.New(pkgerrors.CodeValidation, overWithdrawMessage)
				case errors.Is(err, gorm.ErrRecordNotFound):
					return pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
				default:
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement inventory")
				}
			}
			current.Quantity -= units
		}

		deleted, err := txRepo.DeleteIfEmpty(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete empty inventory item")
		}
		if !deleted {
			if current, err = s.load(ctx, txRepo, id); err != nil {
				return err
			}
		}

		result = WithdrawResult{Item: FromModel(current), Withdrawn: units, Deleted: deleted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.InventoryWithdrawn(result.Withdrawn)
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"inventory_item_id": id.String(),
		"withdrawn":         result.Withdrawn,
		"deleted":           result.Deleted,
	})
	s.logg.Info(ctx, "inventory withdrawn")
	return &result, nil
}

func (s *service) load(ctx context.Context, repo *Repository, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory item")
	}
	return item, nil
}

func applyRequest(item *models.InventoryItem, req ItemRequest) error {
	name := strings.TrimSpace(req.ProductName)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product_name is required")
	}
	if !req.Price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be zero or greater")
	}
	item.ProductName = name
	item.Description = strings.TrimSpace(req.Description)
	item.Price = req.Price.Round(2)
	item.Quantity = *req.Quantity
	return nil
}
