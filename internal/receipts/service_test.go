package receipts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/ferremas-backend/pkg/db/dbtest"
	"github.com/angelmondragon/ferremas-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ferremas-backend/pkg/errors"
	"github.com/angelmondragon/ferremas-backend/pkg/pagination"
)

func seedBoleta(t *testing.T, repo *Repository, userID uuid.UUID, tx string) *models.Boleta {
	t.Helper()
	boleta := &models.Boleta{
		UserID:        userID,
		TransactionID: tx,
		Amount:        decimal.NewFromInt(3000),
		Lines: []models.BoletaLine{{
			SaleID:      uuid.New(),
			ProductName: "Guantes",
			Quantity:    2,
			UnitPrice:   decimal.NewFromInt(1500),
			LineTotal:   decimal.NewFromInt(3000),
		}},
	}
	require.NoError(t, repo.Create(context.Background(), boleta))
	return boleta
}

func TestGetReturnsLinesForOwner(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)
	owner := dbtest.User(t, conn)
	boleta := seedBoleta(t, repo, owner, "tx-1")

	got, err := svc.Get(context.Background(), owner, boleta.ID)
	require.NoError(t, err)
	assert.Equal(t, "tx-1", got.TransactionID)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Guantes", got.Lines[0].ProductName)

	_, err = svc.Get(context.Background(), uuid.New(), boleta.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListScopedToOwner(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)
	owner := dbtest.User(t, conn)
	seedBoleta(t, repo, owner, "tx-a")
	seedBoleta(t, repo, owner, "tx-b")
	seedBoleta(t, repo, dbtest.User(t, conn), "tx-c")

	rows, err := svc.List(context.Background(), owner, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Len(t, row.Lines, 1)
	}
}
