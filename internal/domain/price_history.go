package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChangeType identifies what triggered a price change
type ChangeType string

const (
	ChangeTypeBulkUpload ChangeType = "bulk_upload"
	ChangeTypeManualEdit ChangeType = "manual_edit"
)

// Valid reports whether t is a known change type
func (t ChangeType) Valid() bool {
	return t == ChangeTypeBulkUpload || t == ChangeTypeManualEdit
}

// PriceHistoryEntry is an immutable audit record of a product price change
type PriceHistoryEntry struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	ProductID        uuid.UUID       `json:"product_id" db:"product_id"`
	OldPurchasePrice decimal.Decimal `json:"old_purchase_price" db:"old_purchase_price"`
	NewPurchasePrice decimal.Decimal `json:"new_purchase_price" db:"new_purchase_price"`
	OldSalePrice     decimal.Decimal `json:"old_sale_price" db:"old_sale_price"`
	NewSalePrice     decimal.Decimal `json:"new_sale_price" db:"new_sale_price"`
	Actor            string          `json:"actor" db:"actor"`
	ChangeType       ChangeType      `json:"change_type" db:"change_type"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// PriceHistoryRepository is append-only: there is no update or delete
type PriceHistoryRepository interface {
	// Append inserts a new entry
	Append(ctx context.Context, entry *PriceHistoryEntry) error

	// ListByProductID retrieves entries for a product, newest first
	ListByProductID(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*PriceHistoryEntry, error)

	// CountByProductID returns the number of entries for a product
	CountByProductID(ctx context.Context, productID uuid.UUID) (int, error)
}
