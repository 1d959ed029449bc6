package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/camvault/dealer-ledger/internal/pricing"
)

// Product is a dealer-facing catalog entry
type Product struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	Company            string          `json:"company" db:"company"`
	Segment            string          `json:"segment" db:"segment"`
	ModelNumber        string          `json:"model_number" db:"model_number"`
	ProductType        string          `json:"product_type" db:"product_type"`
	Description        string          `json:"description" db:"description"`
	Specifications     string          `json:"specifications" db:"specifications"`
	BasePrice          decimal.Decimal `json:"base_price" db:"base_price"`
	PurchasePercentage decimal.Decimal `json:"purchase_percentage" db:"purchase_percentage"`
	SalePercentage     decimal.Decimal `json:"sale_percentage" db:"sale_percentage"`
	PurchasePrice      decimal.Decimal `json:"purchase_price" db:"purchase_price"`
	SalePrice          decimal.Decimal `json:"sale_price" db:"sale_price"`
	StockQuantity      int             `json:"stock_quantity" db:"stock_quantity"`
	InStock            bool            `json:"in_stock" db:"in_stock"`
	IsActive           bool            `json:"is_active" db:"is_active"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// Reprice recomputes the derived purchase and sale prices.
// Repositories call it on every write, so derived prices are never taken from callers.
func (p *Product) Reprice() {
	// inputs are held at column precision so the stored row recomputes to the same prices
	p.BasePrice = pricing.Round(p.BasePrice)
	p.PurchasePercentage = pricing.Round(p.PurchasePercentage)
	p.SalePercentage = pricing.Round(p.SalePercentage)

	prices := pricing.Recalculate(p.BasePrice, p.PurchasePercentage, p.SalePercentage)
	p.PurchasePrice = prices.PurchasePrice
	p.SalePrice = prices.SalePrice
}

// PricesDiffer reports whether the derived prices of p and other differ
func (p *Product) PricesDiffer(other *Product) bool {
	return !p.PurchasePrice.Equal(other.PurchasePrice) || !p.SalePrice.Equal(other.SalePrice)
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// Create inserts a new product, deriving its prices first
	Create(ctx context.Context, product *Product) error

	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// GetByIDForUpdate retrieves a product and locks its row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// GetByModelNumberForUpdate retrieves a product by model number and locks its row
	GetByModelNumberForUpdate(ctx context.Context, modelNumber string) (*Product, error)

	// GetByIDs retrieves the products with the given IDs
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)

	// List retrieves a paginated list of products
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Product, error)

	// Count returns the number of products
	Count(ctx context.Context, activeOnly bool) (int, error)

	// Update overwrites a product, deriving its prices first
	Update(ctx context.Context, product *Product) error

	// Deactivate soft-deletes a product
	Deactivate(ctx context.Context, id uuid.UUID) error
}
