package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/camvault/dealer-ledger/internal/domain"
)

// TxRunner implements domain.TxRunner on top of a sqlx pool
type TxRunner struct {
	db *sqlx.DB
}

// NewTxRunner creates a new transaction runner
func NewTxRunner(db *sqlx.DB) *TxRunner {
	return &TxRunner{db: db}
}

// NewRepositories binds every repository to q
func NewRepositories(q Querier) domain.Repositories {
	return domain.Repositories{
		Products:     NewProductRepository(q),
		PriceHistory: NewPriceHistoryRepository(q),
		Transactions: NewTransactionRepository(q),
		Inventory:    NewInventoryRepository(q),
		Dealers:      NewDealerRepository(q),
	}
}

// Run executes fn in a transaction, committing on nil and rolling back otherwise
func (t *TxRunner) Run(ctx context.Context, fn func(repos domain.Repositories) error) (err error) {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w: %w", domain.ErrStorage, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(NewRepositories(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w: %w", domain.ErrStorage, err)
	}

	return nil
}
