package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/camvault/dealer-ledger/internal/domain"
	"github.com/camvault/dealer-ledger/internal/pkg/validator"
)

// TransactionItemInput is one requested line of a transaction
type TransactionItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
	// UnitPrice overrides the catalog sale price of a sale line
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateTransactionInput represents input for recording a dealer transaction
type CreateTransactionInput struct {
	DealerID        uuid.UUID              `json:"-"`
	Type            domain.TransactionType `json:"type" validate:"required,oneof=purchase sale"`
	PaymentMethod   string                 `json:"payment_method" validate:"max=20"`
	PaymentOrderRef string                 `json:"payment_order_reference" validate:"max=100"`
	Items           []TransactionItemInput `json:"items" validate:"required,min=1,dive"`
}

func (in CreateTransactionInput) validate() error {
	if in.DealerID == uuid.Nil {
		return domain.NewValidationError("dealer_id", "is required")
	}
	if err := validator.Struct(in); err != nil {
		return err
	}

	for i, item := range in.Items {
		if item.ProductID == uuid.Nil {
			return domain.NewValidationError(fmt.Sprintf("items[%d].product_id", i), "is required")
		}
		if item.UnitPrice == nil {
			continue
		}
		if in.Type != domain.TransactionTypeSale {
			return domain.NewValidationError(fmt.Sprintf("items[%d].unit_price", i), "can only be set on sales")
		}
		if item.UnitPrice.IsNegative() {
			return domain.NewValidationError(fmt.Sprintf("items[%d].unit_price", i), "must be at least 0")
		}
	}

	return nil
}

// quantities sums requested quantities per product
func (in CreateTransactionInput) quantities() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(in.Items))
	for _, item := range in.Items {
		out[item.ProductID] += item.Quantity
	}
	return out
}

func (in CreateTransactionInput) productIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(in.Items))
	ids := make([]uuid.UUID, 0, len(in.Items))
	for _, item := range in.Items {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		ids = append(ids, item.ProductID)
	}
	return ids
}
