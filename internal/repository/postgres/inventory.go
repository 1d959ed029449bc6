package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/camvault/dealer-ledger/internal/domain"
)

const inventoryColumns = `dealer_id, product_id, quantity_purchased, quantity_sold, quantity_available,
		last_purchase_at, last_sale_at, updated_at`

// InventoryRepository implements domain.InventoryRepository for PostgreSQL
type InventoryRepository struct {
	q Querier
}

// NewInventoryRepository creates a new PostgreSQL inventory repository
func NewInventoryRepository(q Querier) *InventoryRepository {
	return &InventoryRepository{q: q}
}

// Get retrieves the row for a dealer and product
func (r *InventoryRepository) Get(ctx context.Context, dealerID, productID uuid.UUID) (*domain.DealerInventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM dealer_inventory WHERE dealer_id = $1 AND product_id = $2`

	var inv domain.DealerInventory
	if err := r.q.GetContext(ctx, &inv, query, dealerID, productID); err != nil {
		return nil, mapError("get inventory", err)
	}

	return &inv, nil
}

// AddPurchased upserts the row and increments quantity_purchased in a single statement
func (r *InventoryRepository) AddPurchased(ctx context.Context, dealerID, productID uuid.UUID, qty int, at time.Time) (*domain.DealerInventory, error) {
	query := `
		INSERT INTO dealer_inventory (dealer_id, product_id, quantity_purchased, quantity_sold, last_purchase_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $4)
		ON CONFLICT (dealer_id, product_id) DO UPDATE
		SET quantity_purchased = dealer_inventory.quantity_purchased + EXCLUDED.quantity_purchased,
			last_purchase_at = EXCLUDED.last_purchase_at,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + inventoryColumns

	var inv domain.DealerInventory
	if err := r.q.GetContext(ctx, &inv, query, dealerID, productID, qty, at); err != nil {
		return nil, mapError("add purchased", err)
	}

	return &inv, nil
}

// AddSold increments quantity_sold if enough stock is available.
// A missing row or a short row both yield ErrInsufficientStock.
func (r *InventoryRepository) AddSold(ctx context.Context, dealerID, productID uuid.UUID, qty int, at time.Time) (*domain.DealerInventory, error) {
	query := `
		UPDATE dealer_inventory
		SET quantity_sold = quantity_sold + $3,
			last_sale_at = $4,
			updated_at = $4
		WHERE dealer_id = $1 AND product_id = $2 AND quantity_purchased - quantity_sold >= $3
		RETURNING ` + inventoryColumns

	var inv domain.DealerInventory
	if err := r.q.GetContext(ctx, &inv, query, dealerID, productID, qty, at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInsufficientStock
		}
		return nil, mapError("add sold", err)
	}

	return &inv, nil
}

// ListByDealer retrieves every inventory row of a dealer
func (r *InventoryRepository) ListByDealer(ctx context.Context, dealerID uuid.UUID) ([]*domain.DealerInventory, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM dealer_inventory
		WHERE dealer_id = $1
		ORDER BY updated_at DESC
	`

	var rows []*domain.DealerInventory
	if err := r.q.SelectContext(ctx, &rows, query, dealerID); err != nil {
		return nil, mapError("list inventory", err)
	}

	return rows, nil
}
