package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/ferremas-backend/internal/auth"
	"github.com/angelmondragon/ferremas-backend/internal/cart"
	"github.com/angelmondragon/ferremas-backend/internal/dispatch"
	"github.com/angelmondragon/ferremas-backend/internal/inventory"
	"github.com/angelmondragon/ferremas-backend/internal/payments"
	"github.com/angelmondragon/ferremas-backend/internal/sales"
	"github.com/angelmondragon/ferremas-backend/internal/sucursales"
	"github.com/angelmondragon/ferremas-backend/internal/users"
	"github.com/angelmondragon/ferremas-backend/pkg/config"
	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
	"github.com/angelmondragon/ferremas-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
	"github.com/angelmondragon/ferremas-backend/pkg/logger"
	"github.com/angelmondragon/ferremas-backend/pkg/metrics"
	"github.com/angelmondragon/ferremas-backend/pkg/pagination"
	"github.com/angelmondragon/ferremas-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

// stubAuth treats the bearer token as the caller's role.
type stubAuth struct{ auth.Service }

func (stubAuth) Authenticate(_ context.Context, token string) (*auth.Principal, error) {
	role, err := enums.ParseRole(token)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "could not validate credentials")
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(token))
	return &auth.Principal{User: &models.User{ID: id, Email: token + "@ferremas.cl", Role: role, IsActive: true}}, nil
}

type stubInventory struct{ inventory.Service }

func (stubInventory) List(context.Context, pagination.Params) ([]inventory.ItemDTO, error) {
	return []inventory.ItemDTO{}, nil
}

func (stubInventory) Create(context.Context, inventory.ItemRequest) (*inventory.ItemDTO, error) {
	return &inventory.ItemDTO{ID: uuid.New()}, nil
}

type stubSales struct{ sales.Service }

func (stubSales) List(context.Context, pagination.Params) ([]sales.SaleDTO, error) {
	return []sales.SaleDTO{}, nil
}

type stubCart struct{ cart.Service }

func (stubCart) Summary(context.Context, uuid.UUID) (*cart.SummaryDTO, error) {
	return &cart.SummaryDTO{Items: []cart.SummaryLineDTO{}}, nil
}

type stubPayments struct {
	payments.Service
	created *int
}

func (s stubPayments) Create(_ context.Context, userID uuid.UUID, req payments.CreatePaymentRequest) (*payments.PaymentDTO, error) {
	if s.created != nil {
		*s.created++
	}
	return &payments.PaymentDTO{ID: uuid.New(), UserID: userID, Amount: req.Amount, Status: enums.PaymentStatusPending}, nil
}

func (stubPayments) Get(_ context.Context, _ uuid.UUID, id uuid.UUID) (*payments.PaymentDTO, error) {
	return &payments.PaymentDTO{ID: id}, nil
}

type stubUsers struct{ users.Service }

func (stubUsers) Register(_ context.Context, req users.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{ID: uuid.New(), Name: req.Name, Email: req.Email, Role: enums.RoleCliente, IsActive: true}, nil
}

type stubDispatch struct{ dispatch.Service }

func (stubDispatch) Create(_ context.Context, userID uuid.UUID, req dispatch.DispatchRequest) (*dispatch.DispatchDTO, error) {
	return &dispatch.DispatchDTO{ID: uuid.New(), UserID: userID, Address: req.Address}, nil
}

type stubSucursales struct{ sucursales.Service }

func (stubSucursales) Delete(context.Context, uuid.UUID) (*types.DetailMessage, error) {
	return &types.DetailMessage{Detail: "Sucursal deleted"}, nil
}

type memoryStore struct{ data map[string]string }

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.data[key], _ = value.(string)
	return nil
}

func (m *memoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	return true, m.Set(ctx, key, value, ttl)
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryStore) IdempotencyKey(scope, id string) string { return scope + ":" + id }

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	return testRouterWith(t, Dependencies{Payments: stubPayments{}})
}

func testRouterWith(t *testing.T, deps Dependencies) http.Handler {
	t.Helper()
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	reg := prometheus.NewRegistry()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	deps.DB = stubPinger{}
	deps.Redis = stubPinger{}
	deps.HTTPMetrics = metrics.NewHTTPMetrics(reg)
	deps.Gatherer = reg
	deps.Auth = stubAuth{}
	deps.Inventory = stubInventory{}
	deps.Sales = stubSales{}
	deps.Cart = stubCart{}
	deps.Sucursales = stubSucursales{}
	return NewRouter(cfg, logg, deps)
}

func serve(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterAccessControl(t *testing.T) {
	h := testRouter(t)
	inventoryBody := `{"product_name":"Martillo","description":"acero","price":"9990","quantity":3}`

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"health live", http.MethodGet, "/health/live", "", "", http.StatusOK},
		{"health ready", http.MethodGet, "/health/ready", "", "", http.StatusOK},
		{"public inventory list", http.MethodGet, "/api/v1/inventory", "", "", http.StatusOK},
		{"public sales list", http.MethodGet, "/api/v1/sales", "", "", http.StatusOK},
		{"inventory create anonymous", http.MethodPost, "/api/v1/inventory", "", inventoryBody, http.StatusUnauthorized},
		{"inventory create bad token", http.MethodPost, "/api/v1/inventory", "garbage", inventoryBody, http.StatusUnauthorized},
		{"inventory create cliente", http.MethodPost, "/api/v1/inventory", "cliente", inventoryBody, http.StatusForbidden},
		{"inventory create bodega", http.MethodPost, "/api/v1/inventory", "bodega", inventoryBody, http.StatusCreated},
		{"cart summary vendedor", http.MethodGet, "/api/v1/cart/summary", "vendedor", "", http.StatusForbidden},
		{"cart summary cliente", http.MethodGet, "/api/v1/cart/summary", "cliente", "", http.StatusOK},
		{"payment get any role", http.MethodGet, "/api/v1/payments/" + uuid.NewString(), "bodega", "", http.StatusOK},
		{"sucursal delete cliente", http.MethodDelete, "/api/v1/sucursales/" + uuid.NewString(), "cliente", "", http.StatusForbidden},
		{"sucursal delete admin", http.MethodDelete, "/api/v1/sucursales/" + uuid.NewString(), "administrador", "", http.StatusOK},
		{"me", http.MethodGet, "/api/v1/users/me", "vendedor", "", http.StatusOK},
		{"auth me", http.MethodGet, "/api/v1/auth/me", "cliente", "", http.StatusOK},
		{"receipts anonymous", http.MethodGet, "/api/v1/receipts", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		rec := serve(h, tt.method, tt.path, tt.token, tt.body)
		if rec.Code != tt.want {
			t.Fatalf("%s: expected %d got %d (%s)", tt.name, tt.want, rec.Code, rec.Body.String())
		}
	}
}

func TestRouterSucursalDeleteMessage(t *testing.T) {
	rec := serve(testRouter(t), http.MethodDelete, "/api/v1/sucursales/"+uuid.NewString(), "administrador", "")
	if !strings.Contains(rec.Body.String(), `"detail":"Sucursal deleted"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRouterExposesMetrics(t *testing.T) {
	h := testRouter(t)
	serve(h, http.MethodGet, "/api/v1/inventory", "", "")

	rec := serve(h, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `route="/api/v1/inventory`) {
		t.Fatalf("expected route label in metrics output:\n%s", rec.Body.String())
	}

	serve(h, http.MethodGet, "/api/v1/inventory/"+uuid.NewString()+"/nope", "", "")
	rec = serve(h, http.MethodGet, "/metrics", "", "")
	if strings.Contains(rec.Body.String(), "/nope") {
		t.Fatalf("unmatched paths must not become labels")
	}
}

func TestRouterUnknownPathIs404(t *testing.T) {
	rec := serve(testRouter(t), http.MethodGet, "/api/v1/unknown", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestRouterRequestIDHeader(t *testing.T) {
	rec := serve(testRouter(t), http.MethodGet, "/health/live", "", "")
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRouterRequiresIdempotencyKeyOnMoneyRoutes(t *testing.T) {
	h := testRouterWith(t, Dependencies{
		Idempotency: &memoryStore{data: map[string]string{}},
		Payments:    stubPayments{},
	})
	for _, path := range []string{"/api/v1/checkout", "/api/v1/checkout/confirm", "/api/v1/payments"} {
		rec := serve(h, http.MethodPost, path, "cliente", `{}`)
		if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Idempotency-Key") {
			t.Fatalf("%s: expected missing key rejection, got %d %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestRouterRegisterAndDispatchNeedNoIdempotencyKey(t *testing.T) {
	store := &memoryStore{data: map[string]string{}}
	h := testRouterWith(t, Dependencies{
		Idempotency: store,
		Payments:    stubPayments{},
		Users:       stubUsers{},
		Dispatch:    stubDispatch{},
	})

	for _, email := range []string{"ana@ferremas.cl", "beto@ferremas.cl"} {
		rec := serve(h, http.MethodPost, "/api/v1/users", "", `{"name":"Cliente","email":"`+email+`","password":"secreto1"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("register %s: expected 201 got %d %s", email, rec.Code, rec.Body.String())
		}
	}

	rec := serve(h, http.MethodPost, "/api/v1/dispatch", "cliente",
		`{"address":"Av. Providencia 1234","username":"Camila","email":"camila@ferremas.cl","phone":"+56911112222"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("dispatch: expected 201 got %d %s", rec.Code, rec.Body.String())
	}
	if len(store.data) != 0 {
		t.Fatalf("expected no idempotency records, got %v", store.data)
	}
}

func TestRouterReplaysPaymentCreate(t *testing.T) {
	created := 0
	h := testRouterWith(t, Dependencies{
		Idempotency: &memoryStore{data: map[string]string{}},
		Payments:    stubPayments{created: &created},
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(`{"amount":"15990"}`))
		req.Header.Set("Authorization", "Bearer cliente")
		req.Header.Set("Idempotency-Key", "pay-1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("attempt %d: expected 201 got %d %s", i, rec.Code, rec.Body.String())
		}
	}
	if created != 1 {
		t.Fatalf("expected a single payment, created %d", created)
	}
}
