package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/camvault/dealer-ledger/internal/domain"
)

// PriceHistoryRepository implements domain.PriceHistoryRepository for PostgreSQL
type PriceHistoryRepository struct {
	q Querier
}

// NewPriceHistoryRepository creates a new PostgreSQL price history repository
func NewPriceHistoryRepository(q Querier) *PriceHistoryRepository {
	return &PriceHistoryRepository{q: q}
}

// Append inserts a new history entry
func (r *PriceHistoryRepository) Append(ctx context.Context, entry *domain.PriceHistoryEntry) error {
	query := `
		INSERT INTO product_price_history (
			id, product_id, old_purchase_price, new_purchase_price,
			old_sale_price, new_sale_price, actor, change_type, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.q.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.ProductID,
		entry.OldPurchasePrice,
		entry.NewPurchasePrice,
		entry.OldSalePrice,
		entry.NewSalePrice,
		entry.Actor,
		entry.ChangeType,
		entry.CreatedAt,
	)
	return mapError("insert price history", err)
}

// ListByProductID retrieves entries for a product, newest first
func (r *PriceHistoryRepository) ListByProductID(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*domain.PriceHistoryEntry, error) {
	query := `
		SELECT id, product_id, old_purchase_price, new_purchase_price, old_sale_price,
			new_sale_price, actor, change_type, created_at
		FROM product_price_history
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	var entries []*domain.PriceHistoryEntry
	if err := r.q.SelectContext(ctx, &entries, query, productID, limit, offset); err != nil {
		return nil, mapError("list price history", err)
	}

	return entries, nil
}

// CountByProductID returns the number of entries for a product
func (r *PriceHistoryRepository) CountByProductID(ctx context.Context, productID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM product_price_history WHERE product_id = $1`

	var count int
	if err := r.q.GetContext(ctx, &count, query, productID); err != nil {
		return 0, mapError("count price history", err)
	}

	return count, nil
}
