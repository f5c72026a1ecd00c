package models

import (
	"testing"

	"github.com/angelmondragon/ferremas-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:models_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&User{}, &InventoryItem{}, &Boleta{}, &BoletaLine{}))
	return conn
}

func TestBeforeCreateAssignsIDs(t *testing.T) {
	conn := openTestDB(t)

	user := User{Name: "Ana", Email: "ana@ferremas.cl", PasswordHash: "x", Role: enums.RoleCliente, IsActive: true}
	require.NoError(t, conn.Create(&user).Error)
	require.NotEqual(t, uuid.Nil, user.ID)

	fixed := uuid.New()
	item := InventoryItem{ID: fixed, ProductName: "Martillo", Price: decimal.RequireFromString("4990"), Quantity: 3}
	require.NoError(t, conn.Create(&item).Error)
	require.Equal(t, fixed, item.ID)

	var stored InventoryItem
	require.NoError(t, conn.First(&stored, "id = ?", fixed).Error)
	require.True(t, stored.Price.Equal(decimal.RequireFromString("4990")))
}

func TestBoletaCreatesLines(t *testing.T) {
	conn := openTestDB(t)
	owner := uuid.New()
	boleta := Boleta{
		UserID:        owner,
		TransactionID: uuid.NewString(),
		Amount:        decimal.RequireFromString("9980"),
		Lines: []BoletaLine{{
			SaleID:      uuid.New(),
			ProductName: "Martillo",
			Quantity:    2,
			UnitPrice:   decimal.RequireFromString("4990"),
			LineTotal:   decimal.RequireFromString("9980"),
		}},
	}
	require.NoError(t, conn.Create(&boleta).Error)
	require.Equal(t, owner, boleta.OwnerID())

	var loaded Boleta
	require.NoError(t, conn.Preload("Lines").First(&loaded, "id = ?", boleta.ID).Error)
	require.Len(t, loaded.Lines, 1)
	require.Equal(t, boleta.ID, loaded.Lines[0].BoletaID)
	require.NotEqual(t, uuid.Nil, loaded.Lines[0].ID)
}
