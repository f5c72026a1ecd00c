package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/ferremas-backend/internal/policy"
	"github.com/angelmondragon/ferremas-backend/pkg/db"
	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
	"github.com/angelmondragon/ferremas-backend/pkg/logger"
)

const cartItemResource = "cart item"

// Service manages the caller's cart.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*ItemDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, req UpdateQuantityRequest) (*ItemDTO, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) (*ItemDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) (*ClearResult, error)
	Summary(ctx context.Context, userID uuid.UUID) (*SummaryDTO, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg}, nil
}

// Add puts a sale in the cart. A sale already in the cart has its quantity
// increased instead of getting a second row.
func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*ItemDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	exists, err := s.repo.SaleExists(ctx, req.SaleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check sale")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
	}

	item, err := s.addOrIncrement(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"user_id":      userID.String(),
		"cart_item_id": item.ID.String(),
		"sale_id":      req.SaleID.String(),
	})
	s.logg.Info(ctx, "cart item added")
	return FromModel(item), nil
}

func (s *service) addOrIncrement(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*models.CartItem, error) {
	existing, err := s.repo.FindByUserAndSale(ctx, userID, req.SaleID)
	switch {
	case err == nil:
		return s.increment(ctx, existing.ID, req.Quantity)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}

	item := &models.CartItem{UserID: userID, SaleID: req.SaleID, Quantity: req.Quantity}
	if err := s.repo.Create(ctx, item); err != nil {
		if !db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart item")
		}
		// lost a race with a concurrent add of the same sale
		existing, ferr := s.repo.FindByUserAndSale(ctx, userID, req.SaleID)
		if ferr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, ferr, "load cart item")
		}
		return s.increment(ctx, existing.ID, req.Quantity)
	}
	return item, nil
}

func (s *service) increment(ctx context.Context, id uuid.UUID, delta int) (*models.CartItem, error) {
	if err := s.repo.AddQuantity(ctx, id, delta); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment cart item")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart")
	}
	return fromModels(rows), nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, req UpdateQuantityRequest) (*ItemDTO, error) {
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	item, err := s.owned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetQuantity(ctx, item.ID, req.Quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}
	item.Quantity = req.Quantity
	return FromModel(item), nil
}

func (s *service) Remove(ctx context.Context, userID, itemID uuid.UUID) (*ItemDTO, error) {
	item, err := s.owned(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, item.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
	}
	return FromModel(item), nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*ClearResult, error) {
	removed, err := s.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return &ClearResult{Removed: removed}, nil
}

func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*SummaryDTO, error) {
	lines, err := s.repo.Lines(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart lines")
	}
	summary := NewSummary(lines)
	return &summary, nil
}

func (s *service) owned(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}
	if err := policy.EnsureOwner(userID, item, cartItemResource); err != nil {
		return nil, err
	}
	return item, nil
}
