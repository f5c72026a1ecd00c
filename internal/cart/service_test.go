package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/ferremas-backend/pkg/db/dbtest"
	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), nil)
	require.NoError(t, err)
	return svc, conn
}

func seedSale(t *testing.T, conn *gorm.DB, name, price string, stock int) *models.Sale {
	t.Helper()
	item := &models.InventoryItem{ProductName: name, Price: decimal.RequireFromString(price), Quantity: stock}
	require.NoError(t, conn.Create(item).Error)
	sale := &models.Sale{ProductID: item.ID, Price: decimal.RequireFromString(price)}
	require.NoError(t, conn.Omit("Product").Create(sale).Error)
	return sale
}

func TestAddCreatesThenIncrements(t *testing.T) {
	svc, conn := newTestService(t)
	user := dbtest.User(t, conn)
	sale := seedSale(t, conn, "Martillo", "5000", 10)

	first, err := svc.Add(context.Background(), user, AddItemRequest{SaleID: sale.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	second, err := svc.Add(context.Background(), user, AddItemRequest{SaleID: sale.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	items, err := svc.List(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	svc, conn := newTestService(t)
	sale := seedSale(t, conn, "Martillo", "5000", 10)

	for _, qty := range []int{0, -1} {
		_, err := svc.Add(context.Background(), uuid.New(), AddItemRequest{SaleID: sale.ID, Quantity: qty})
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "qty %d", qty)
	}
}

func TestAddUnknownSale(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Add(context.Background(), uuid.New(), AddItemRequest{SaleID: uuid.New(), Quantity: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateQuantityOwnerOnly(t *testing.T) {
	svc, conn := newTestService(t)
	owner := dbtest.User(t, conn)
	sale := seedSale(t, conn, "Pala", "12000", 3)
	item, err := svc.Add(context.Background(), owner, AddItemRequest{SaleID: sale.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(context.Background(), uuid.New(), item.ID, UpdateQuantityRequest{Quantity: 4})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.UpdateQuantity(context.Background(), owner, item.ID, UpdateQuantityRequest{Quantity: 0})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	updated, err := svc.UpdateQuantity(context.Background(), owner, item.ID, UpdateQuantityRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
}

func TestRemoveForeignOrMissingIsNotFound(t *testing.T) {
	svc, conn := newTestService(t)
	owner := dbtest.User(t, conn)
	sale := seedSale(t, conn, "Rastrillo", "8000", 3)
	item, err := svc.Add(context.Background(), owner, AddItemRequest{SaleID: sale.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Remove(context.Background(), uuid.New(), item.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	removed, err := svc.Remove(context.Background(), owner, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, removed.ID)

	_, err = svc.Remove(context.Background(), owner, item.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestClearOnlyTouchesCallerCart(t *testing.T) {
	svc, conn := newTestService(t)
	a, b := dbtest.User(t, conn), dbtest.User(t, conn)
	sale := seedSale(t, conn, "Cinta", "990", 30)
	_, err := svc.Add(context.Background(), a, AddItemRequest{SaleID: sale.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), b, AddItemRequest{SaleID: sale.ID, Quantity: 1})
	require.NoError(t, err)

	res, err := svc.Clear(context.Background(), a)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Removed)

	left, err := svc.List(context.Background(), b)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestSummaryTotalsCallerLines(t *testing.T) {
	svc, conn := newTestService(t)
	user := dbtest.User(t, conn)
	hammer := seedSale(t, conn, "Martillo", "4990.50", 10)
	nails := seedSale(t, conn, "Clavos", "1200", 100)
	_, err := svc.Add(context.Background(), user, AddItemRequest{SaleID: hammer.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), user, AddItemRequest{SaleID: nails.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), dbtest.User(t, conn), AddItemRequest{SaleID: nails.ID, Quantity: 50})
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, summary.Items, 2)

	expected := decimal.RequireFromString("4990.50").Mul(decimal.NewFromInt(2)).
		Add(decimal.NewFromInt(1200).Mul(decimal.NewFromInt(3)))
	assert.True(t, summary.TotalAmount.Equal(expected), "total %s", summary.TotalAmount)

	names := map[string]bool{}
	for _, line := range summary.Items {
		names[line.ProductName] = true
		assert.True(t, line.Total.Equal(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))))
	}
	assert.True(t, names["Martillo"])
	assert.True(t, names["Clavos"])
}

func TestSummaryEmptyCart(t *testing.T) {
	svc, _ := newTestService(t)
	summary, err := svc.Summary(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.True(t, summary.TotalAmount.IsZero())
}

func TestDeletingSaleRemovesItsCartLines(t *testing.T) {
	svc, conn := newTestService(t)
	user := dbtest.User(t, conn)
	kept := seedSale(t, conn, "Martillo", "5000", 10)
	dropped := seedSale(t, conn, "Serrucho", "7500", 4)
	_, err := svc.Add(context.Background(), user, AddItemRequest{SaleID: kept.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), user, AddItemRequest{SaleID: dropped.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, conn.Delete(&models.Sale{}, "id = ?", dropped.ID).Error)

	items, err := svc.List(context.Background(), user)
	require.NoError(t, err)
	summary, err := svc.Summary(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, kept.ID, items[0].SaleID)
	assert.True(t, summary.TotalAmount.Equal(decimal.NewFromInt(5000)))
}

func TestSchemaRejectsNonPositiveQuantity(t *testing.T) {
	_, conn := newTestService(t)
	user := dbtest.User(t, conn)
	sale := seedSale(t, conn, "Taladro", "45000", 2)

	err := conn.Create(&models.CartItem{UserID: user, SaleID: sale.ID, Quantity: 0}).Error
	assert.Error(t, err)
}
