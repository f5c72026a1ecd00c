package sales

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
	"github.com/angelmondragon/ferremas-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), nil)
	require.NoError(t, err)
	return svc, conn
}

func seedProduct(t *testing.T, conn *gorm.DB, name string) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{ProductName: name, Price: decimal.NewFromInt(1000), Quantity: 5}
	require.NoError(t, conn.Create(item).Error)
	return item
}

func TestCreateSale(t *testing.T) {
	svc, conn := newTestService(t)
	product := seedProduct(t, conn, "Alicate")

	sale, err := svc.Create(context.Background(), CreateSaleRequest{ProductID: product.ID, Price: decimal.RequireFromString("1290.50")})
	require.NoError(t, err)
	assert.Equal(t, product.ID, sale.ProductID)
	assert.Equal(t, "Alicate", sale.ProductName)

	got, err := svc.Get(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("1290.5")))
	assert.Equal(t, "Alicate", got.ProductName)
}

func TestCreateSaleUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), CreateSaleRequest{ProductID: uuid.New(), Price: decimal.NewFromInt(10)})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateSaleRejectsNonPositivePrice(t *testing.T) {
	svc, conn := newTestService(t)
	product := seedProduct(t, conn, "Sierra")
	_, err := svc.Create(context.Background(), CreateSaleRequest{ProductID: product.ID, Price: decimal.NewFromInt(-1)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateSalePriceAndProduct(t *testing.T) {
	svc, conn := newTestService(t)
	first := seedProduct(t, conn, "Llave")
	second := seedProduct(t, conn, "Llave inglesa")
	sale, err := svc.Create(context.Background(), CreateSaleRequest{ProductID: first.ID, Price: decimal.NewFromInt(100)})
	require.NoError(t, err)

	price := decimal.NewFromInt(250)
	updated, err := svc.Update(context.Background(), sale.ID, UpdateSaleRequest{ProductID: &second.ID, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, second.ID, updated.ProductID)

	got, err := svc.Get(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ProductID)
	assert.True(t, got.Price.Equal(price))

	missing := uuid.New()
	_, err = svc.Update(context.Background(), sale.ID, UpdateSaleRequest{ProductID: &missing})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteSale(t *testing.T) {
	svc, conn := newTestService(t)
	product := seedProduct(t, conn, "Serrucho")
	sale, err := svc.Create(context.Background(), CreateSaleRequest{ProductID: product.ID, Price: decimal.NewFromInt(100)})
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, deleted.ID)

	_, err = svc.Delete(context.Background(), sale.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	rows, err := svc.List(context.Background(), pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
