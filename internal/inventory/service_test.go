package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/ferremas-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
	"github.com/angelmondragon/ferremas-backend/pkg/pagination"
)

type unitsRecorder struct {
	units int
}

func (u *unitsRecorder) InventoryWithdrawn(units int) { u.units += units }

func newTestService(t *testing.T) (Service, *Repository, *unitsRecorder) {
	t.Helper()
	client, conn := dbtest.Client(t)
	repo := NewRepository(conn)
	recorder := &unitsRecorder{}
	svc, err := NewService(ServiceParams{Repo: repo, Tx: client, Metrics: recorder})
	require.NoError(t, err)
	return svc, repo, recorder
}

func intPtr(v int) *int { return &v }

func createItem(t *testing.T, svc Service, name string, qty int) *ItemDTO {
	t.Helper()
	item, err := svc.Create(context.Background(), ItemRequest{
		ProductName: name,
		Description: "martillo de acero",
		Price:       decimal.RequireFromString("4990"),
		Quantity:    intPtr(qty),
	})
	require.NoError(t, err)
	return item
}

func TestCreateAndGet(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := createItem(t, svc, "Martillo", 10)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Martillo", got.ProductName)
	assert.Equal(t, 10, got.Quantity)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(4990)))
}

func TestCreateRejectsNonPositivePrice(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), ItemRequest{ProductName: "X", Price: decimal.Zero, Quantity: intPtr(1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestGetMissing(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateReplacesFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := createItem(t, svc, "Taladro", 3)

	updated, err := svc.Update(context.Background(), created.ID, ItemRequest{
		ProductName: "Taladro percutor",
		Price:       decimal.RequireFromString("59990"),
		Quantity:    intPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "Taladro percutor", updated.ProductName)
	assert.Equal(t, 0, updated.Quantity)
	assert.Equal(t, "", updated.Description)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}

func TestList(t *testing.T) {
	svc, _, _ := newTestService(t)
	createItem(t, svc, "A", 1)
	createItem(t, svc, "B", 1)

	rows, err := svc.List(context.Background(), pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestWithdrawDecrements(t *testing.T) {
	svc, _, recorder := newTestService(t)
	created := createItem(t, svc, "Clavos", 10)

	res, err := svc.Withdraw(context.Background(), created.ID, intPtr(4))
	require.NoError(t, err)
	assert.False(t, res.Deleted)
	assert.Equal(t, 4, res.Withdrawn)
	assert.Equal(t, 6, res.Item.Quantity)
	assert.Equal(t, 4, recorder.units)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)
}

func TestWithdrawExactQuantityDeletesRow(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := createItem(t, svc, "Tornillos", 5)

	res, err := svc.Withdraw(context.Background(), created.ID, intPtr(5))
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.Equal(t, 0, res.Item.Quantity)

	_, err = svc.Get(context.Background(), created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestWithdrawMoreThanAvailableRejected(t *testing.T) {
	svc, _, recorder := newTestService(t)
	created := createItem(t, svc, "Pintura", 2)

	_, err := svc.Withdraw(context.Background(), created.ID, intPtr(3))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, overWithdrawMessage, pkgerrors.As(err).Message())
	assert.Equal(t, 0, recorder.units)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
}

func TestWithdrawWithoutQuantityTakesEverything(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := createItem(t, svc, "Brocha", 7)

	res, err := svc.Withdraw(context.Background(), created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, res.Withdrawn)
	assert.True(t, res.Deleted)
}

func TestWithdrawRejectsNonPositive(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := createItem(t, svc, "Lija", 7)

	_, err := svc.Withdraw(context.Background(), created.ID, intPtr(0))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = svc.Withdraw(context.Background(), created.ID, intPtr(-2))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestWithdrawMissingItem(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Withdraw(context.Background(), uuid.New(), intPtr(1))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDecrementGuardsStock(t *testing.T) {
	svc, repo, _ := newTestService(t)
	created := createItem(t, svc, "Cemento", 3)

	require.ErrorIs(t, repo.Decrement(context.Background(), created.ID, 4), ErrInsufficientStock)
	require.NoError(t, repo.Decrement(context.Background(), created.ID, 3))

	item, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)
}
