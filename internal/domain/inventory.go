package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/camvault/dealer-ledger/internal/pricing"
)

// DealerInventory holds the cumulative counters of one product for one dealer
type DealerInventory struct {
	DealerID          uuid.UUID  `json:"dealer_id" db:"dealer_id"`
	ProductID         uuid.UUID  `json:"product_id" db:"product_id"`
	QuantityPurchased int        `json:"quantity_purchased" db:"quantity_purchased"`
	QuantitySold      int        `json:"quantity_sold" db:"quantity_sold"`
	QuantityAvailable int        `json:"quantity_available" db:"quantity_available"`
	LastPurchaseAt    *time.Time `json:"last_purchase_at,omitempty" db:"last_purchase_at"`
	LastSaleAt        *time.Time `json:"last_sale_at,omitempty" db:"last_sale_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// InventoryRepository defines the interface for dealer inventory data access.
// Counter changes are atomic increments at the storage layer, never read-modify-write in Go.
type InventoryRepository interface {
	// Get retrieves the row for a dealer and product
	Get(ctx context.Context, dealerID, productID uuid.UUID) (*DealerInventory, error)

	// AddPurchased creates the row if absent, otherwise increments quantity_purchased
	AddPurchased(ctx context.Context, dealerID, productID uuid.UUID, qty int, at time.Time) (*DealerInventory, error)

	// AddSold increments quantity_sold of an existing row.
	// It fails with ErrInsufficientStock when the row is missing or the sale exceeds quantity_available.
	AddSold(ctx context.Context, dealerID, productID uuid.UUID, qty int, at time.Time) (*DealerInventory, error)

	// ListByDealer retrieves every inventory row of a dealer
	ListByDealer(ctx context.Context, dealerID uuid.UUID) ([]*DealerInventory, error)
}

// DealerStats aggregates a dealer's completed transactions
type DealerStats struct {
	DealerID            uuid.UUID       `json:"dealer_id" db:"dealer_id"`
	TotalPurchases      int             `json:"total_purchases" db:"total_purchases"`
	TotalPurchaseAmount decimal.Decimal `json:"total_purchase_amount" db:"total_purchase_amount"`
	TotalSales          int             `json:"total_sales" db:"total_sales"`
	TotalSaleAmount     decimal.Decimal `json:"total_sale_amount" db:"total_sale_amount"`
	TotalProfit         decimal.Decimal `json:"total_profit" db:"-"`
}

// Finalize rounds amounts to currency precision and derives the profit
func (s *DealerStats) Finalize() {
	s.TotalPurchaseAmount = pricing.Round(s.TotalPurchaseAmount)
	s.TotalSaleAmount = pricing.Round(s.TotalSaleAmount)
	s.TotalProfit = pricing.Round(s.TotalSaleAmount.Sub(s.TotalPurchaseAmount))
}
