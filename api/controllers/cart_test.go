package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/ferremas-backend/internal/cart"
	"github.com/angelmondragon/ferremas-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
)

type stubCartService struct {
	userID  uuid.UUID
	itemID  uuid.UUID
	added   cart.AddItemRequest
	summary *cart.SummaryDTO
	err     error
}

func (s *stubCartService) Add(_ context.Context, userID uuid.UUID, req cart.AddItemRequest) (*cart.ItemDTO, error) {
	s.userID = userID
	s.added = req
	return &cart.ItemDTO{ID: uuid.New(), SaleID: req.SaleID, Quantity: req.Quantity}, s.err
}

func (s *stubCartService) List(_ context.Context, userID uuid.UUID) ([]cart.ItemDTO, error) {
	s.userID = userID
	return []cart.ItemDTO{}, s.err
}

func (s *stubCartService) UpdateQuantity(_ context.Context, userID, itemID uuid.UUID, req cart.UpdateQuantityRequest) (*cart.ItemDTO, error) {
	s.userID = userID
	s.itemID = itemID
	return &cart.ItemDTO{ID: itemID, Quantity: req.Quantity}, s.err
}

func (s *stubCartService) Remove(_ context.Context, userID, itemID uuid.UUID) (*cart.ItemDTO, error) {
	s.userID = userID
	s.itemID = itemID
	if s.err != nil {
		return nil, s.err
	}
	return &cart.ItemDTO{ID: itemID}, nil
}

func (s *stubCartService) Clear(_ context.Context, userID uuid.UUID) (*cart.ClearResult, error) {
	s.userID = userID
	return &cart.ClearResult{Removed: 2}, s.err
}

func (s *stubCartService) Summary(_ context.Context, userID uuid.UUID) (*cart.SummaryDTO, error) {
	s.userID = userID
	return s.summary, s.err
}

func TestCartAddUsesCaller(t *testing.T) {
	svc := &stubCartService{}
	saleID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(`{"sale_id":"`+saleID.String()+`","quantity":2}`))
	req, user := withCaller(req, enums.RoleCliente)
	rec := httptest.NewRecorder()
	CartAdd(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.userID != user.ID || svc.added.SaleID != saleID || svc.added.Quantity != 2 {
		t.Fatalf("unexpected call user=%s req=%+v", svc.userID, svc.added)
	}
}

func TestCartAddRejectsNonPositiveQuantity(t *testing.T) {
	for _, qty := range []string{"0", "-3"} {
		svc := &stubCartService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(`{"sale_id":"`+uuid.NewString()+`","quantity":`+qty+`}`))
		req, _ = withCaller(req, enums.RoleCliente)
		rec := httptest.NewRecorder()
		CartAdd(svc, nil).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("quantity %s: expected 422 got %d", qty, rec.Code)
		}
		if svc.userID != uuid.Nil {
			t.Fatalf("quantity %s: service should not be called", qty)
		}
	}
}

func TestCartAddRequiresCaller(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(`{"sale_id":"`+uuid.NewString()+`","quantity":1}`))
	rec := httptest.NewRecorder()
	CartAdd(&stubCartService{}, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestCartRemoveForeignItemIsNotFound(t *testing.T) {
	itemID := uuid.New()
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")}
	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/cart/"+itemID.String(), nil), "cartItemId", itemID.String())
	req, _ = withCaller(req, enums.RoleCliente)
	rec := httptest.NewRecorder()
	CartRemove(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
	if svc.itemID != itemID {
		t.Fatalf("expected item id passed through")
	}
}

func TestCartSummaryWritesTotals(t *testing.T) {
	svc := &stubCartService{summary: &cart.SummaryDTO{
		Items: []cart.SummaryLineDTO{{
			ProductName: "Taladro",
			Quantity:    2,
			Price:       decimal.NewFromInt(45000),
			Total:       decimal.NewFromInt(90000),
		}},
		TotalAmount: decimal.NewFromInt(90000),
	}}
	req, _ := withCaller(httptest.NewRequest(http.MethodGet, "/api/v1/cart/summary", nil), enums.RoleCliente)
	rec := httptest.NewRecorder()
	CartSummary(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			Items       []map[string]any `json:"items"`
			TotalAmount string           `json:"total_amount"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.TotalAmount != "90000" || len(envelope.Data.Items) != 1 {
		t.Fatalf("unexpected summary %+v", envelope.Data)
	}
}
