package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/ferremas-backend/internal/policy"
	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
	"github.com/angelmondragon/ferremas-backend/pkg/logger"
	"github.com/angelmondragon/ferremas-backend/pkg/pagination"
)

const dispatchResource = "dispatch"

// Service manages dispatch requests. Every dispatch costs the configured fee.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req DispatchRequest) (*DispatchDTO, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]DispatchDTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*DispatchDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, req DispatchRequest) (*DispatchDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (*DispatchDTO, error)
}

type service struct {
	repo *Repository
	fee  decimal.Decimal
	logg *logger.Logger
}

func NewService(repo *Repository, fee decimal.Decimal, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dispatch repository is required")
	}
	if fee.IsNegative() {
		return nil, fmt.Errorf("dispatch fee must not be negative")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, fee: fee, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req DispatchRequest) (*DispatchDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	d := &models.Dispatch{UserID: userID, TotalCost: s.fee}
	if err := applyRequest(d, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create dispatch")
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"user_id": userID.String(), "dispatch_id": d.ID.String()})
	s.logg.Info(ctx, "dispatch created")
	return FromModel(d), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]DispatchDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list dispatches")
	}
	return fromModels(rows), nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*DispatchDTO, error) {
	d, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(d), nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, req DispatchRequest) (*DispatchDTO, error) {
	d, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := applyRequest(d, req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateContact(ctx, d); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update dispatch")
	}
	return FromModel(d), nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) (*DispatchDTO, error) {
	d, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, d.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dispatch not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete dispatch")
	}
	return FromModel(d), nil
}

func (s *service) owned(ctx context.Context, userID, id uuid.UUID) (*models.Dispatch, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dispatch not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load dispatch")
	}
	if err := policy.EnsureOwner(userID, d, dispatchResource); err != nil {
		return nil, err
	}
	return d, nil
}

func applyRequest(d *models.Dispatch, req DispatchRequest) error {
	fields := map[string]string{
		"address":  strings.TrimSpace(req.Address),
		"username": strings.TrimSpace(req.Username),
		"email":    strings.TrimSpace(req.Email),
		"phone":    strings.TrimSpace(req.Phone),
	}
	for _, name := range []string{"address", "username", "email", "phone"} {
		if fields[name] == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
		}
	}
	d.Address = fields["address"]
	d.Username = fields["username"]
	d.Email = fields["email"]
	d.Phone = fields["phone"]
	return nil
}
