package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a dealer transaction
type TransactionType string

const (
	TransactionTypePurchase TransactionType = "purchase"
	TransactionTypeSale     TransactionType = "sale"
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	return t == TransactionTypePurchase || t == TransactionTypeSale
}

// PaymentStatus is the state of a dealer transaction
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from s
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusCancelled
}

// CanTransitionTo reports whether s may move to next.
// Only pending -> completed and pending -> cancelled exist.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return s == PaymentStatusPending && next.Terminal()
}

// TransactionItem is one line of a dealer transaction
type TransactionItem struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	TransactionID uuid.UUID       `json:"transaction_id" db:"transaction_id"`
	ProductID     uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity      int             `json:"quantity" db:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price" db:"unit_price"`
	LineTotal     decimal.Decimal `json:"line_total" db:"line_total"`
}

// DealerTransaction is a purchase from, or a sale recorded by, a dealer
type DealerTransaction struct {
	ID               uuid.UUID         `json:"id" db:"id"`
	DealerID         uuid.UUID         `json:"dealer_id" db:"dealer_id"`
	Type             TransactionType   `json:"type" db:"type"`
	InvoiceNumber    string            `json:"invoice_number" db:"invoice_number"`
	TotalAmount      decimal.Decimal   `json:"total_amount" db:"total_amount"`
	PaymentStatus    PaymentStatus     `json:"payment_status" db:"payment_status"`
	PaymentMethod    string            `json:"payment_method" db:"payment_method"`
	PaymentOrderRef  string            `json:"payment_order_ref" db:"payment_order_ref"`
	PaymentRef       *string           `json:"payment_ref,omitempty" db:"payment_ref"`
	PaymentSignature *string           `json:"-" db:"payment_signature"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" db:"updated_at"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty" db:"completed_at"`
	Items            []TransactionItem `json:"items" db:"-"`
}

// ComputeTotal sums the line totals
func (t *DealerTransaction) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range t.Items {
		total = total.Add(item.LineTotal)
	}
	return total
}

// PaymentProof is what the payment gateway hands back after checkout
type PaymentProof struct {
	OrderRef   string `json:"order_reference" validate:"required"`
	PaymentRef string `json:"payment_reference" validate:"required"`
	Signature  string `json:"signature" validate:"required"`
	Method     string `json:"method,omitempty"`
}

// TransactionRepository defines the interface for dealer transaction data access
type TransactionRepository interface {
	// Create inserts a transaction together with its items
	Create(ctx context.Context, txn *DealerTransaction) error

	// GetByID retrieves a transaction with its items
	GetByID(ctx context.Context, id uuid.UUID) (*DealerTransaction, error)

	// GetByIDForUpdate retrieves a transaction with its items and locks the transaction row
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*DealerTransaction, error)

	// ListByDealer retrieves a dealer's transactions, newest first (items not loaded)
	ListByDealer(ctx context.Context, dealerID uuid.UUID, limit, offset int) ([]*DealerTransaction, error)

	// CountByDealer returns the number of transactions of a dealer
	CountByDealer(ctx context.Context, dealerID uuid.UUID) (int, error)

	// MarkCompleted moves a pending transaction to completed and stores payment metadata
	MarkCompleted(ctx context.Context, id uuid.UUID, proof PaymentProof, completedAt time.Time) error

	// MarkCancelled moves a pending transaction to cancelled
	MarkCancelled(ctx context.Context, id uuid.UUID) error

	// Stats aggregates the completed transactions of a dealer
	Stats(ctx context.Context, dealerID uuid.UUID) (*DealerStats, error)
}
