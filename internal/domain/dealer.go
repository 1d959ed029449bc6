package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Dealer is a registered reseller
type Dealer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DealerRepository defines the interface for dealer lookups
type DealerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Dealer, error)
}

// Repositories groups repositories bound to the same database transaction
type Repositories struct {
	Products     ProductRepository
	PriceHistory PriceHistoryRepository
	Transactions TransactionRepository
	Inventory    InventoryRepository
	Dealers      DealerRepository
}

// TxRunner runs fn inside a single database transaction.
// It commits when fn returns nil and rolls back otherwise.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
