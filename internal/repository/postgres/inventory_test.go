package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camvault/dealer-ledger/internal/domain"
)

var inventoryRowColumns = []string{
	"dealer_id", "product_id", "quantity_purchased", "quantity_sold", "quantity_available",
	"last_purchase_at", "last_sale_at", "updated_at",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestInventoryRepository_AddPurchased_IncrementsOnConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(db)

	dealerID := uuid.New()
	productID := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(inventoryRowColumns).
		AddRow(dealerID.String(), productID.String(), 8, 0, 8, now, nil, now)

	// The increment must happen in SQL, not in Go
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (dealer_id, product_id) DO UPDATE SET quantity_purchased = dealer_inventory.quantity_purchased + EXCLUDED.quantity_purchased")).
		WithArgs(dealerID, productID, 3, now).
		WillReturnRows(rows)

	inv, err := repo.AddPurchased(context.Background(), dealerID, productID, 3, now)

	require.NoError(t, err)
	assert.Equal(t, dealerID, inv.DealerID)
	assert.Equal(t, 8, inv.QuantityPurchased)
	assert.Equal(t, 8, inv.QuantityAvailable)
	assert.Nil(t, inv.LastSaleAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepository_AddSold_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(db)

	dealerID := uuid.New()
	productID := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(inventoryRowColumns).
		AddRow(dealerID.String(), productID.String(), 5, 2, 3, now, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("quantity_purchased - quantity_sold >= $3")).
		WithArgs(dealerID, productID, 2, now).
		WillReturnRows(rows)

	inv, err := repo.AddSold(context.Background(), dealerID, productID, 2, now)

	require.NoError(t, err)
	assert.Equal(t, 2, inv.QuantitySold)
	assert.Equal(t, 3, inv.QuantityAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepository_AddSold_InsufficientStock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(db)

	dealerID := uuid.New()
	productID := uuid.New()
	now := time.Now().UTC()

	// Guard in WHERE matched nothing
	mock.ExpectQuery("UPDATE dealer_inventory").
		WithArgs(dealerID, productID, 10, now).
		WillReturnError(sql.ErrNoRows)

	inv, err := repo.AddSold(context.Background(), dealerID, productID, 10, now)

	assert.Nil(t, inv)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepository_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(db)

	dealerID := uuid.New()
	productID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM dealer_inventory").
		WithArgs(dealerID, productID).
		WillReturnRows(sqlmock.NewRows(inventoryRowColumns))

	inv, err := repo.Get(context.Background(), dealerID, productID)

	assert.Nil(t, inv)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepository_ListByDealer(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(db)

	dealerID := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(inventoryRowColumns).
		AddRow(dealerID.String(), uuid.NewString(), 4, 1, 3, now, now, now).
		AddRow(dealerID.String(), uuid.NewString(), 2, 0, 2, now, nil, now)

	mock.ExpectQuery("SELECT (.+) FROM dealer_inventory").
		WithArgs(dealerID).
		WillReturnRows(rows)

	list, err := repo.ListByDealer(context.Background(), dealerID)

	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 3, list[0].QuantityAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "no rows", err: sql.ErrNoRows, expected: domain.ErrNotFound},
		{name: "unique violation", err: &pq.Error{Code: pqUniqueViolation}, expected: domain.ErrAlreadyExists},
		{name: "foreign key violation", err: &pq.Error{Code: pqForeignKeyViolation}, expected: domain.ErrNotFound},
		{name: "check violation", err: &pq.Error{Code: pqCheckViolation}, expected: domain.ErrConflict},
		{name: "anything else", err: errors.New("connection reset"), expected: domain.ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError("op", tt.err), tt.expected)
		})
	}

	assert.NoError(t, mapError("op", nil))
}
