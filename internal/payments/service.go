package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/ferremas-backend/internal/policy"
	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
	"github.com/angelmondragon/ferremas-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
	"github.com/angelmondragon/ferremas-backend/pkg/logger"
	"github.com/angelmondragon/ferremas-backend/pkg/pagination"
)

// Service records payments. The flow is mocked, so new payments stay pending
// until a checkout confirmation completes them.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreatePaymentRequest) (*PaymentDTO, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]PaymentDTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*PaymentDTO, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreatePaymentRequest) (*PaymentDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if !req.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	payment := &models.Payment{
		UserID: userID,
		Amount: req.Amount.Round(2),
		Status: enums.PaymentStatusPending,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create payment")
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"user_id": userID.String(), "payment_id": payment.ID.String()})
	s.logg.Info(ctx, "payment recorded")
	return FromModel(payment), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]PaymentDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list payments")
	}
	return fromModels(rows), nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*PaymentDTO, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payment")
	}
	if err := policy.EnsureOwner(userID, payment, "payment"); err != nil {
		return nil, err
	}
	return FromModel(payment), nil
}
