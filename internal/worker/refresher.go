package worker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/camvault/dealer-ledger/internal/domain"
	"github.com/camvault/dealer-ledger/internal/pkg/logger"
	"github.com/camvault/dealer-ledger/internal/repository/postgres"
)

// StatsWriter stores freshly computed dealer stats
type StatsWriter interface {
	SetDealerStats(ctx context.Context, stats *domain.DealerStats) error
}

// StatsRefresher recomputes dealer stats from the database and warms the cache
type StatsRefresher struct {
	transactions domain.TransactionRepository
	cache        StatsWriter
	logger       *logger.Logger
}

// NewStatsRefresher creates a new stats refresher
func NewStatsRefresher(db *sqlx.DB, cache StatsWriter, logger *logger.Logger) *StatsRefresher {
	return &StatsRefresher{
		transactions: postgres.NewTransactionRepository(db),
		cache:        cache,
		logger:       logger,
	}
}

// Refresh recalculates the completed-transaction aggregates of a dealer.
// It always recomputes from scratch so a lost event is corrected by the next one.
func (r *StatsRefresher) Refresh(ctx context.Context, dealerID uuid.UUID) error {
	stats, err := r.transactions.Stats(ctx, dealerID)
	if err != nil {
		return fmt.Errorf("failed to compute dealer stats: %w", err)
	}

	if err := r.cache.SetDealerStats(ctx, stats); err != nil {
		return fmt.Errorf("failed to cache dealer stats: %w", err)
	}

	r.logger.WithFields(map[string]any{
		"dealer_id":       dealerID.String(),
		"total_purchases": stats.TotalPurchases,
		"total_sales":     stats.TotalSales,
		"total_profit":    stats.TotalProfit.StringFixed(2),
	}).Info("Successfully refreshed dealer stats")

	return nil
}
