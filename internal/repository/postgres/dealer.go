package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/camvault/dealer-ledger/internal/domain"
)

// DealerRepository implements domain.DealerRepository for PostgreSQL
type DealerRepository struct {
	q Querier
}

// NewDealerRepository creates a new PostgreSQL dealer repository
func NewDealerRepository(q Querier) *DealerRepository {
	return &DealerRepository{q: q}
}

// GetByID retrieves a dealer by ID
func (r *DealerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dealer, error) {
	query := `SELECT id, name, email, phone, is_active, created_at FROM dealers WHERE id = $1`

	var dealer domain.Dealer
	if err := r.q.GetContext(ctx, &dealer, query, id); err != nil {
		return nil, mapError("get dealer", err)
	}

	return &dealer, nil
}
