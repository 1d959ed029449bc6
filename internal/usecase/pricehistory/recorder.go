package pricehistory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/camvault/dealer-ledger/internal/domain"
	"github.com/camvault/dealer-ledger/internal/pkg/logger"
)

// Change describes one price mutation of a product
type Change struct {
	ProductID        uuid.UUID
	OldPurchasePrice decimal.Decimal
	OldSalePrice     decimal.Decimal
	NewPurchasePrice decimal.Decimal
	NewSalePrice     decimal.Decimal
	Actor            string
	ChangeType       domain.ChangeType
}

// ChangeFor builds the change between the stored product and its repriced replacement
func ChangeFor(before, after *domain.Product, actor string, changeType domain.ChangeType) Change {
	return Change{
		ProductID:        before.ID,
		OldPurchasePrice: before.PurchasePrice,
		OldSalePrice:     before.SalePrice,
		NewPurchasePrice: after.PurchasePrice,
		NewSalePrice:     after.SalePrice,
		Actor:            actor,
		ChangeType:       changeType,
	}
}

// Recorder appends price history entries
type Recorder struct {
	repo   domain.PriceHistoryRepository
	logger *logger.Logger
}

// NewRecorder creates a new recorder. repo is only used for reads;
// writes go through the transaction-bound repository passed to Record.
func NewRecorder(repo domain.PriceHistoryRepository, log *logger.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: log,
	}
}

// Record appends one entry through repo. Callers must invoke it inside the
// same transaction that later overwrites the product, and before that write.
func (r *Recorder) Record(ctx context.Context, repo domain.PriceHistoryRepository, change Change) (*domain.PriceHistoryEntry, error) {
	if change.ProductID == uuid.Nil {
		return nil, domain.NewValidationError("product_id", "is required")
	}
	if change.Actor == "" {
		return nil, domain.NewValidationError("actor", "is required")
	}
	if !change.ChangeType.Valid() {
		return nil, domain.NewValidationError("change_type", "is not supported")
	}

	entry := &domain.PriceHistoryEntry{
		ID:               uuid.New(),
		ProductID:        change.ProductID,
		OldPurchasePrice: change.OldPurchasePrice,
		NewPurchasePrice: change.NewPurchasePrice,
		OldSalePrice:     change.OldSalePrice,
		NewSalePrice:     change.NewSalePrice,
		Actor:            change.Actor,
		ChangeType:       change.ChangeType,
		CreatedAt:        time.Now().UTC(),
	}

	if err := repo.Append(ctx, entry); err != nil {
		r.logger.Error("Failed to append price history", err)
		return nil, err
	}

	r.logger.WithFields(map[string]interface{}{
		"product_id":  entry.ProductID,
		"change_type": entry.ChangeType,
		"actor":       entry.Actor,
	}).Debug("Price history recorded")

	return entry, nil
}

// List retrieves a product's history, newest first
func (r *Recorder) List(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*domain.PriceHistoryEntry, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := r.repo.ListByProductID(ctx, productID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list price history", err)
		return nil, 0, err
	}

	total, err := r.repo.CountByProductID(ctx, productID)
	if err != nil {
		r.logger.Error("Failed to count price history", err)
		return nil, 0, err
	}

	return entries, total, nil
}
