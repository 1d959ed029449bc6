package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camvault/dealer-ledger/internal/domain"
)

var transactionRowColumns = []string{
	"id", "dealer_id", "type", "invoice_number", "total_amount", "payment_status",
	"payment_method", "payment_order_ref", "payment_ref", "payment_signature",
	"created_at", "updated_at", "completed_at",
}

func TestTransactionRepository_Create_InsertsItems(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	txn := &domain.DealerTransaction{
		DealerID:        uuid.New(),
		Type:            domain.TransactionTypePurchase,
		InvoiceNumber:   "INV-20260101-ABCDEF12",
		TotalAmount:     decimal.NewFromInt(2400),
		PaymentStatus:   domain.PaymentStatusPending,
		PaymentMethod:   "online",
		PaymentOrderRef: "order_INV-20260101-ABCDEF12",
		Items: []domain.TransactionItem{
			{ProductID: uuid.New(), Quantity: 3, UnitPrice: decimal.NewFromInt(800), LineTotal: decimal.NewFromInt(2400)},
		},
	}

	mock.ExpectExec("INSERT INTO dealer_transactions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO dealer_transaction_items").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), txn)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, txn.ID)
	assert.Equal(t, txn.ID, txn.Items[0].TransactionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_Create_KeepsInvoiceTimestamp(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	// issued a moment before midnight; the insert may run after it
	issuedAt := time.Date(2026, 1, 1, 23, 59, 59, 900_000_000, time.UTC)
	txn := &domain.DealerTransaction{
		DealerID:        uuid.New(),
		Type:            domain.TransactionTypeSale,
		InvoiceNumber:   "INV-20260101-0A1B2C3D",
		TotalAmount:     decimal.NewFromInt(720),
		PaymentStatus:   domain.PaymentStatusPending,
		PaymentOrderRef: "order_INV-20260101-0A1B2C3D",
		CreatedAt:       issuedAt,
		UpdatedAt:       issuedAt,
	}

	mock.ExpectExec("INSERT INTO dealer_transactions").
		WithArgs(sqlmock.AnyArg(), txn.DealerID, domain.TransactionTypeSale, "INV-20260101-0A1B2C3D",
			sqlmock.AnyArg(), domain.PaymentStatusPending, "", "order_INV-20260101-0A1B2C3D",
			sqlmock.AnyArg(), sqlmock.AnyArg(), issuedAt, issuedAt, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), txn)

	require.NoError(t, err)
	assert.Equal(t, issuedAt, txn.CreatedAt)
	assert.Equal(t, "20260101", txn.CreatedAt.Format("20060102"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_Create_StampsMissingTimestamp(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	mock.ExpectExec("INSERT INTO dealer_transactions").
		WillReturnResult(sqlmock.NewResult(0, 1))

	txn := &domain.DealerTransaction{DealerID: uuid.New(), Type: domain.TransactionTypePurchase}
	err := repo.Create(context.Background(), txn)

	require.NoError(t, err)
	assert.False(t, txn.CreatedAt.IsZero())
	assert.Equal(t, txn.CreatedAt, txn.UpdatedAt)
}

func TestTransactionRepository_GetByID_LoadsItems(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	id := uuid.New()
	dealerID := uuid.New()
	productID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM dealer_transactions WHERE id = \\$1$").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(transactionRowColumns).AddRow(
			id.String(), dealerID.String(), "sale", "INV-1", "1440.00", "pending",
			"cod", "order_INV-1", nil, nil, now, now, nil,
		))
	mock.ExpectQuery("SELECT (.+) FROM dealer_transaction_items").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "transaction_id", "product_id", "quantity", "unit_price", "line_total"}).
			AddRow(uuid.NewString(), id.String(), productID.String(), 2, "720.00", "1440.00"))

	txn, err := repo.GetByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeSale, txn.Type)
	assert.Equal(t, domain.PaymentStatusPending, txn.PaymentStatus)
	assert.Nil(t, txn.PaymentRef)
	require.Len(t, txn.Items, 1)
	assert.Equal(t, 2, txn.Items[0].Quantity)
	assert.True(t, txn.Items[0].LineTotal.Equal(decimal.NewFromInt(1440)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_GetByIDForUpdate_LocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	id := uuid.New()

	mock.ExpectQuery("FOR UPDATE").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(transactionRowColumns))

	txn, err := repo.GetByIDForUpdate(context.Background(), id)

	assert.Nil(t, txn)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_MarkCompleted_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	id := uuid.New()
	now := time.Now().UTC()
	proof := domain.PaymentProof{OrderRef: "order_1", PaymentRef: "pay_1", Signature: "abc"}

	mock.ExpectExec("UPDATE dealer_transactions").
		WithArgs(domain.PaymentStatusCompleted, "pay_1", "abc", "", now, id, domain.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkCompleted(context.Background(), id, proof, now)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_MarkCompleted_NotPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	id := uuid.New()

	mock.ExpectExec("UPDATE dealer_transactions").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkCompleted(context.Background(), id, domain.PaymentProof{}, time.Now())

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_MarkCancelled_StorageError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	mock.ExpectExec("UPDATE dealer_transactions").
		WillReturnError(errors.New("connection refused"))

	err := repo.MarkCancelled(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_Stats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	dealerID := uuid.New()

	rows := sqlmock.NewRows([]string{"dealer_id", "total_purchases", "total_purchase_amount", "total_sales", "total_sale_amount"}).
		AddRow(dealerID.String(), 2, "1500.5", 1, "2000")

	mock.ExpectQuery("payment_status = 'completed'").
		WithArgs(dealerID).
		WillReturnRows(rows)

	stats, err := repo.Stats(context.Background(), dealerID)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPurchases)
	assert.Equal(t, 1, stats.TotalSales)
	assert.Equal(t, "1500.50", stats.TotalPurchaseAmount.StringFixed(2))
	assert.Equal(t, "499.50", stats.TotalProfit.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
