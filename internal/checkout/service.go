package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/ferremas-backend/internal/cart"
	"github.com/angelmondragon/ferremas-backend/internal/inventory"
	"github.com/angelmondragon/ferremas-backend/internal/payments"
	"github.com/angelmondragon/ferremas-backend/internal/policy"
	"github.com/angelmondragon/ferremas-backend/internal/receipts"
	pkgcheckout "github.com/angelmondragon/ferremas-backend/pkg/checkout"
	"github.com/angelmondragon/ferremas-backend/pkg/config"
	"github.com/angelmondragon/ferremas-backend/pkg/db"
	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
	"github.com/angelmondragon/ferremas-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
	"github.com/angelmondragon/ferremas-backend/pkg/logger"
)

const emptyCartMessage = "cart is empty"

// Service runs the mocked checkout: a session opens a pending payment for the
// cart total and confirmation turns the cart into a boleta.
type Service interface {
	StartSession(ctx context.Context, userID uuid.UUID) (*SessionDTO, error)
	Confirm(ctx context.Context, userID uuid.UUID, req ConfirmRequest) (*ConfirmationDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type checkoutRecorder interface {
	CheckoutStarted()
	CheckoutConfirmed(amount decimal.Decimal)
	CheckoutFailed(reason string)
}

// ServiceParams bundles the checkout service dependencies.
type ServiceParams struct {
	Tx        txRunner
	Cart      *cart.Repository
	Inventory *inventory.Repository
	Payments  *payments.Repository
	Receipts  *receipts.Repository
	Config    config.CheckoutConfig
	Metrics   checkoutRecorder
	Logger    *logger.Logger
	NewID     func() string
}

type service struct {
	tx        txRunner
	cart      *cart.Repository
	inventory *inventory.Repository
	payments  *payments.Repository
	receipts  *receipts.Repository
	cfg       config.CheckoutConfig
	metrics   checkoutRecorder
	logg      *logger.Logger
	newID     func() string
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Tx == nil:
		return nil, fmt.Errorf("transaction runner is required")
	case params.Cart == nil:
		return nil, fmt.Errorf("cart repository is required")
	case params.Inventory == nil:
		return nil, fmt.Errorf("inventory repository is required")
	case params.Payments == nil:
		return nil, fmt.Errorf("payments repository is required")
	case params.Receipts == nil:
		return nil, fmt.Errorf("receipts repository is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	newID := params.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &service{
		tx:        params.Tx,
		cart:      params.Cart,
		inventory: params.Inventory,
		payments:  params.Payments,
		receipts:  params.Receipts,
		cfg:       params.Config,
		metrics:   params.Metrics,
		logg:      logg,
		newID:     newID,
	}, nil
}

func (s *service) StartSession(ctx context.Context, userID uuid.UUID) (*SessionDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	lines, err := s.cart.Lines(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart lines")
	}
	if len(lines) == 0 {
		s.recordFailure("empty_cart")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, emptyCartMessage)
	}

	amount := pkgcheckout.SumLines(lines)
	buyOrder := s.newID()
	payment := &models.Payment{
		UserID:    userID,
		Amount:    amount,
		Status:    enums.PaymentStatusPending,
		Reference: &buyOrder,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "buy order already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create payment")
	}

	if s.metrics != nil {
		s.metrics.CheckoutStarted()
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"user_id":    userID.String(),
		"buy_order":  buyOrder,
		"payment_id": payment.ID.String(),
		"amount":     amount.String(),
	})
	s.logg.Info(ctx, "checkout started")

	return &SessionDTO{
		URL:       s.cfg.GatewayURL,
		Token:     s.cfg.MockToken,
		BuyOrder:  buyOrder,
		SessionID: s.newID(),
		Amount:    amount,
		Currency:  s.cfg.Currency,
		ReturnURL: s.cfg.ReturnURL,
		PaymentID: payment.ID,
	}, nil
}

// Confirm validates stock, decrements inventory, issues the boleta, empties
// the cart and completes the payment in a single transaction.
func (s *service) Confirm(ctx context.Context, userID uuid.UUID, req ConfirmRequest) (*ConfirmationDTO, error) {
	buyOrder := strings.TrimSpace(req.BuyOrder)
	if buyOrder == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buy_order is required")
	}

	var result ConfirmationDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		payRepo := s.payments.WithTx(tx)
		cartRepo := s.cart.WithTx(tx)

		payment, err := payRepo.FindByReference(ctx, buyOrder)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payment")
		}
		if err := policy.EnsureOwner(userID, payment, "payment"); err != nil {
			return err
		}
		if payment.Status != enums.PaymentStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment is not pending").WithDetails(map[string]any{
				"status": payment.Status,
			})
		}

		lines, err := cartRepo.Lines(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart lines")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, emptyCartMessage)
		}
		if err := pkgcheckout.ValidateStock(lines); err != nil {
			return err
		}
		amount := pkgcheckout.SumLines(lines)
		if !amount.Equal(payment.Amount) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart changed since checkout started").WithDetails(map[string]any{
				"payment_amount": payment.Amount,
				"cart_amount":    amount,
			})
		}

		if err := s.withdrawStock(ctx, s.inventory.WithTx(tx), lines); err != nil {
			return err
		}

		boleta := newBoleta(userID, buyOrder, amount, lines)
		if err := s.receipts.WithTx(tx).Create(ctx, boleta); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "boleta already issued for buy order")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create boleta")
		}

		if _, err := cartRepo.DeleteByUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}

		ok, err := payRepo.TransitionStatus(ctx, payment.ID, enums.PaymentStatusPending, enums.PaymentStatusCompleted)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "complete payment")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment is not pending")
		}
		payment.Status = enums.PaymentStatusCompleted

		result = ConfirmationDTO{Boleta: receipts.FromModel(boleta), Payment: payments.FromModel(payment)}
		return nil
	})
	if err != nil {
		s.recordFailure(failureReason(err))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CheckoutConfirmed(result.Boleta.Amount)
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"user_id":   userID.String(),
		"buy_order": buyOrder,
		"boleta_id": result.Boleta.ID.String(),
		"amount":    result.Boleta.Amount.String(),
	})
	s.logg.Info(ctx, "boleta issued")
	return &result, nil
}

// withdrawStock decrements inventory once per product, in a stable order so
// concurrent confirmations lock rows the same way.
func (s *service) withdrawStock(ctx context.Context, repo *inventory.Repository, lines []pkgcheckout.Line) error {
	perProduct := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		perProduct[line.ProductID] += line.Quantity
	}
	ids := make([]uuid.UUID, 0, len(perProduct))
	for id := range perProduct {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		if err := repo.Decrement(ctx, id, perProduct[id]); err != nil {
			switch {
			case errors.Is(err, inventory.ErrInsufficientStock):
				return pkgerrors.New(pkgerrors.CodeValidation, "insufficient stock").WithDetails(map[string]any{
					"product_id":    id,
					"requested_qty": perProduct[id],
				})
			case errors.Is(err, gorm.ErrRecordNotFound):
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			default:
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement inventory")
			}
		}
	}
	return nil
}

func newBoleta(userID uuid.UUID, buyOrder string, amount decimal.Decimal, lines []pkgcheckout.Line) *models.Boleta {
	boletaLines := make([]models.BoletaLine, 0, len(lines))
	for _, line := range lines {
		boletaLines = append(boletaLines, models.BoletaLine{
			SaleID:      line.SaleID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.Total(),
		})
	}
	return &models.Boleta{
		UserID:        userID,
		TransactionID: buyOrder,
		Amount:        amount,
		Lines:         boletaLines,
	}
}

func (s *service) recordFailure(reason string) {
	if s.metrics != nil {
		s.metrics.CheckoutFailed(reason)
	}
}

func failureReason(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "internal"
	}
	return strings.ToLower(string(typed.Code()))
}
