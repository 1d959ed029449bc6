package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/camvault/dealer-ledger/internal/domain"
)

const transactionColumns = `id, dealer_id, type, invoice_number, total_amount, payment_status,
		payment_method, payment_order_ref, payment_ref, payment_signature,
		created_at, updated_at, completed_at`

// TransactionRepository implements domain.TransactionRepository for PostgreSQL
type TransactionRepository struct {
	q Querier
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(q Querier) *TransactionRepository {
	return &TransactionRepository{q: q}
}

// Create inserts a transaction and its items.
// Callers run it inside a TxRunner so header and items commit together.
func (r *TransactionRepository) Create(ctx context.Context, txn *domain.DealerTransaction) error {
	query := `
		INSERT INTO dealer_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	// the invoice number carries the caller's date, so its timestamp is kept
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	if txn.UpdatedAt.IsZero() {
		txn.UpdatedAt = txn.CreatedAt
	}

	_, err := r.q.ExecContext(
		ctx,
		query,
		txn.ID,
		txn.DealerID,
		txn.Type,
		txn.InvoiceNumber,
		txn.TotalAmount,
		txn.PaymentStatus,
		txn.PaymentMethod,
		txn.PaymentOrderRef,
		txn.PaymentRef,
		txn.PaymentSignature,
		txn.CreatedAt,
		txn.UpdatedAt,
		txn.CompletedAt,
	)
	if err != nil {
		return mapError("insert transaction", err)
	}

	itemQuery := `
		INSERT INTO dealer_transaction_items (id, transaction_id, product_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for i := range txn.Items {
		item := &txn.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.TransactionID = txn.ID

		if _, err := r.q.ExecContext(
			ctx,
			itemQuery,
			item.ID,
			item.TransactionID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
			item.LineTotal,
		); err != nil {
			return mapError("insert transaction item", err)
		}
	}

	return nil
}

// GetByID retrieves a transaction with its items
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DealerTransaction, error) {
	return r.get(ctx, `SELECT `+transactionColumns+` FROM dealer_transactions WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a transaction with its items and locks the transaction row
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.DealerTransaction, error) {
	return r.get(ctx, `SELECT `+transactionColumns+` FROM dealer_transactions WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransactionRepository) get(ctx context.Context, query string, id uuid.UUID) (*domain.DealerTransaction, error) {
	var txn domain.DealerTransaction
	if err := r.q.GetContext(ctx, &txn, query, id); err != nil {
		return nil, mapError("get transaction", err)
	}

	itemQuery := `
		SELECT id, transaction_id, product_id, quantity, unit_price, line_total
		FROM dealer_transaction_items
		WHERE transaction_id = $1
		ORDER BY id
	`

	if err := r.q.SelectContext(ctx, &txn.Items, itemQuery, id); err != nil {
		return nil, mapError("get transaction items", err)
	}

	return &txn, nil
}

// ListByDealer retrieves a dealer's transactions, newest first
func (r *TransactionRepository) ListByDealer(ctx context.Context, dealerID uuid.UUID, limit, offset int) ([]*domain.DealerTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM dealer_transactions
		WHERE dealer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var txns []*domain.DealerTransaction
	if err := r.q.SelectContext(ctx, &txns, query, dealerID, limit, offset); err != nil {
		return nil, mapError("list transactions", err)
	}

	return txns, nil
}

// CountByDealer returns the number of transactions of a dealer
func (r *TransactionRepository) CountByDealer(ctx context.Context, dealerID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM dealer_transactions WHERE dealer_id = $1`

	var count int
	if err := r.q.GetContext(ctx, &count, query, dealerID); err != nil {
		return 0, mapError("count transactions", err)
	}

	return count, nil
}

// MarkCompleted moves a pending transaction to completed.
// Returns ErrConflict if the transaction is no longer pending.
func (r *TransactionRepository) MarkCompleted(ctx context.Context, id uuid.UUID, proof domain.PaymentProof, completedAt time.Time) error {
	query := `
		UPDATE dealer_transactions
		SET payment_status = $1, payment_ref = $2, payment_signature = $3,
			payment_method = COALESCE(NULLIF($4, ''), payment_method),
			completed_at = $5, updated_at = $5
		WHERE id = $6 AND payment_status = $7
	`

	result, err := r.q.ExecContext(
		ctx,
		query,
		domain.PaymentStatusCompleted,
		proof.PaymentRef,
		proof.Signature,
		proof.Method,
		completedAt,
		id,
		domain.PaymentStatusPending,
	)
	return r.checkTransition("complete transaction", result, err)
}

// MarkCancelled moves a pending transaction to cancelled.
// Returns ErrConflict if the transaction is no longer pending.
func (r *TransactionRepository) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE dealer_transactions
		SET payment_status = $1, updated_at = $2
		WHERE id = $3 AND payment_status = $4
	`

	result, err := r.q.ExecContext(
		ctx,
		query,
		domain.PaymentStatusCancelled,
		time.Now().UTC(),
		id,
		domain.PaymentStatusPending,
	)
	return r.checkTransition("cancel transaction", result, err)
}

func (r *TransactionRepository) checkTransition(op string, result sql.Result, err error) error {
	if err != nil {
		return mapError(op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return mapError(op, err)
	}

	if rowsAffected == 0 {
		return domain.ErrConflict
	}

	return nil
}

// Stats aggregates the completed transactions of a dealer
func (r *TransactionRepository) Stats(ctx context.Context, dealerID uuid.UUID) (*domain.DealerStats, error) {
	query := `
		SELECT
			$1::uuid AS dealer_id,
			COUNT(*) FILTER (WHERE type = 'purchase') AS total_purchases,
			COALESCE(SUM(total_amount) FILTER (WHERE type = 'purchase'), 0) AS total_purchase_amount,
			COUNT(*) FILTER (WHERE type = 'sale') AS total_sales,
			COALESCE(SUM(total_amount) FILTER (WHERE type = 'sale'), 0) AS total_sale_amount
		FROM dealer_transactions
		WHERE dealer_id = $1 AND payment_status = 'completed'
	`

	var stats domain.DealerStats
	if err := r.q.GetContext(ctx, &stats, query, dealerID); err != nil {
		return nil, mapError("dealer stats", err)
	}

	stats.Finalize()
	return &stats, nil
}
