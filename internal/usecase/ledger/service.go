package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/camvault/dealer-ledger/internal/domain"
	"github.com/camvault/dealer-ledger/internal/pkg/logger"
	"github.com/camvault/dealer-ledger/internal/pkg/validator"
	"github.com/camvault/dealer-ledger/internal/pricing"
)

const invoiceAttempts = 3

// ProofVerifier checks a payment gateway signature
type ProofVerifier interface {
	Verify(orderRef, paymentRef, signature string) error
}

// StatsCache caches dealer aggregates
type StatsCache interface {
	GetDealerStats(ctx context.Context, dealerID uuid.UUID) (*domain.DealerStats, error)
	SetDealerStats(ctx context.Context, stats *domain.DealerStats) error
	FillDealerStats(ctx context.Context, stats *domain.DealerStats) (bool, error)
	InvalidateDealerStats(ctx context.Context, dealerID uuid.UUID) error
}

// CODTerms are the cash-on-delivery advance settings
type CODTerms struct {
	AdvancePercent decimal.Decimal
	Surcharge      decimal.Decimal
}

// CODQuote is the advance a dealer pays before a cash-on-delivery order ships
type CODQuote struct {
	TransactionID  uuid.UUID       `json:"transaction_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	AdvancePercent decimal.Decimal `json:"advance_percent"`
	Surcharge      decimal.Decimal `json:"surcharge"`
	AdvanceAmount  decimal.Decimal `json:"advance_amount"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
}

// Service handles dealer transactions, inventory and stats
type Service struct {
	repos     domain.Repositories
	txRunner  domain.TxRunner
	verifier  ProofVerifier
	cache     StatsCache
	publisher domain.EventPublisher
	cod       CODTerms
	logger    *logger.Logger
	now       func() time.Time
}

// NewService creates a new ledger service
func NewService(
	repos domain.Repositories,
	txRunner domain.TxRunner,
	verifier ProofVerifier,
	cache StatsCache,
	publisher domain.EventPublisher,
	cod CODTerms,
	log *logger.Logger,
) *Service {
	return &Service{
		repos:     repos,
		txRunner:  txRunner,
		verifier:  verifier,
		cache:     cache,
		publisher: publisher,
		cod:       cod,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateTransaction records a pending purchase or sale. Inventory is untouched
// until the payment completes.
func (s *Service) CreateTransaction(ctx context.Context, input CreateTransactionInput, actor string) (*domain.DealerTransaction, error) {
	if err := input.validate(); err != nil {
		s.logger.Debugf("Transaction validation failed: %v", err)
		return nil, err
	}

	if _, err := s.activeDealer(ctx, input.DealerID); err != nil {
		return nil, err
	}

	products, err := s.loadProducts(ctx, input.productIDs())
	if err != nil {
		return nil, err
	}

	if input.Type == domain.TransactionTypeSale {
		if err := s.checkStock(ctx, input.DealerID, input.quantities()); err != nil {
			return nil, err
		}
	}

	txn := s.buildTransaction(input, products)

	for attempt := 1; ; attempt++ {
		txn.InvoiceNumber = newInvoiceNumber(txn.CreatedAt)
		if input.PaymentOrderRef == "" {
			txn.PaymentOrderRef = "order_" + txn.InvoiceNumber
		}

		err = s.txRunner.Run(ctx, func(repos domain.Repositories) error {
			return repos.Transactions.Create(ctx, txn)
		})
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrAlreadyExists) || attempt == invoiceAttempts {
			s.logger.Error("Failed to create transaction", err)
			return nil, err
		}
		s.logger.Warnf("Invoice number %s already taken, retrying", txn.InvoiceNumber)
	}

	s.publishEvent(ctx, domain.EventTransactionCreated, txn, actor)

	s.logger.WithFields(map[string]interface{}{
		"transaction_id": txn.ID,
		"dealer_id":      txn.DealerID,
		"type":           txn.Type,
		"invoice_number": txn.InvoiceNumber,
		"total_amount":   txn.TotalAmount.StringFixed(pricing.CurrencyPlaces),
	}).Info("Transaction created successfully")

	return txn, nil
}

func (s *Service) buildTransaction(input CreateTransactionInput, products map[uuid.UUID]*domain.Product) *domain.DealerTransaction {
	now := s.now()
	txn := &domain.DealerTransaction{
		ID:              uuid.New(),
		DealerID:        input.DealerID,
		Type:            input.Type,
		PaymentStatus:   domain.PaymentStatusPending,
		PaymentMethod:   strings.TrimSpace(input.PaymentMethod),
		PaymentOrderRef: strings.TrimSpace(input.PaymentOrderRef),
		CreatedAt:       now,
		UpdatedAt:       now,
		Items:           make([]domain.TransactionItem, 0, len(input.Items)),
	}

	for _, item := range input.Items {
		product := products[item.ProductID]

		unitPrice := product.PurchasePrice
		if input.Type == domain.TransactionTypeSale {
			unitPrice = product.SalePrice
			if item.UnitPrice != nil {
				unitPrice = pricing.Round(*item.UnitPrice)
			}
		}

		txn.Items = append(txn.Items, domain.TransactionItem{
			ID:            uuid.New(),
			TransactionID: txn.ID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			UnitPrice:     unitPrice,
			LineTotal:     pricing.Round(unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))),
		})
	}

	txn.TotalAmount = txn.ComputeTotal()
	return txn
}

func (s *Service) activeDealer(ctx context.Context, dealerID uuid.UUID) (*domain.Dealer, error) {
	dealer, err := s.repos.Dealers.GetByID(ctx, dealerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Dealer not found: %s", dealerID)
		} else {
			s.logger.Error("Failed to get dealer", err)
		}
		return nil, err
	}
	if !dealer.IsActive {
		return nil, domain.NewValidationError("dealer_id", "is inactive")
	}
	return dealer, nil
}

// loadProducts fetches every referenced product; unknown or inactive ones are invalid input
func (s *Service) loadProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	found, err := s.repos.Products.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load products", err)
		return nil, err
	}

	products := make(map[uuid.UUID]*domain.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}

	for _, id := range ids {
		p, ok := products[id]
		if !ok {
			return nil, domain.NewValidationError("product_id", fmt.Sprintf("%s does not exist", id))
		}
		if !p.IsActive {
			return nil, domain.NewValidationError("product_id", fmt.Sprintf("%s is inactive", id))
		}
	}

	return products, nil
}

// checkStock is an advisory check at creation time; CompletePayment re-checks under lock
func (s *Service) checkStock(ctx context.Context, dealerID uuid.UUID, quantities map[uuid.UUID]int) error {
	for productID, qty := range quantities {
		row, err := s.repos.Inventory.Get(ctx, dealerID, productID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: product %s has never been purchased", domain.ErrInsufficientStock, productID)
			}
			s.logger.Error("Failed to read inventory", err)
			return err
		}
		if row.QuantityAvailable < qty {
			return fmt.Errorf("%w: product %s has %d available, %d requested",
				domain.ErrInsufficientStock, productID, row.QuantityAvailable, qty)
		}
	}
	return nil
}

// CompletePayment verifies the payment proof and, in one database transaction,
// marks the transaction completed and applies its items to the dealer inventory.
// A rejected proof leaves the transaction pending.
func (s *Service) CompletePayment(ctx context.Context, id uuid.UUID, proof domain.PaymentProof, actor string) (*domain.DealerTransaction, error) {
	if err := validator.Struct(proof); err != nil {
		return nil, err
	}

	txn, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if !txn.PaymentStatus.CanTransitionTo(domain.PaymentStatusCompleted) {
		return nil, fmt.Errorf("%w: transaction is %s", domain.ErrConflict, txn.PaymentStatus)
	}

	if proof.OrderRef != txn.PaymentOrderRef {
		s.logger.Warnf("Payment order reference mismatch for transaction %s", id)
		return nil, fmt.Errorf("%w: order reference does not match", domain.ErrInvalidPaymentProof)
	}
	if err := s.verifier.Verify(proof.OrderRef, proof.PaymentRef, proof.Signature); err != nil {
		s.logger.Warnf("Payment signature rejected for transaction %s", id)
		return nil, err
	}

	var completed *domain.DealerTransaction
	err = s.txRunner.Run(ctx, func(repos domain.Repositories) error {
		locked, err := repos.Transactions.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !locked.PaymentStatus.CanTransitionTo(domain.PaymentStatusCompleted) {
			return fmt.Errorf("%w: transaction is %s", domain.ErrConflict, locked.PaymentStatus)
		}

		at := s.now()
		if err := repos.Transactions.MarkCompleted(ctx, id, proof, at); err != nil {
			return err
		}

		for _, item := range locked.Items {
			if err := applyItem(ctx, repos.Inventory, locked, item, at); err != nil {
				return err
			}
		}

		locked.PaymentStatus = domain.PaymentStatusCompleted
		locked.PaymentRef = &proof.PaymentRef
		locked.PaymentSignature = &proof.Signature
		if proof.Method != "" {
			locked.PaymentMethod = proof.Method
		}
		locked.CompletedAt = &at
		locked.UpdatedAt = at
		completed = locked
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) && !errors.Is(err, domain.ErrInsufficientStock) {
			s.logger.Error("Failed to complete payment", err)
		}
		return nil, err
	}

	s.refreshStats(ctx, completed.DealerID)
	s.publishEvent(ctx, domain.EventTransactionCompleted, completed, actor)

	s.logger.WithFields(map[string]interface{}{
		"transaction_id": completed.ID,
		"dealer_id":      completed.DealerID,
		"type":           completed.Type,
		"items":          len(completed.Items),
	}).Info("Payment completed successfully")

	return completed, nil
}

func applyItem(ctx context.Context, inventory domain.InventoryRepository, txn *domain.DealerTransaction, item domain.TransactionItem, at time.Time) error {
	switch txn.Type {
	case domain.TransactionTypePurchase:
		_, err := inventory.AddPurchased(ctx, txn.DealerID, item.ProductID, item.Quantity, at)
		return err
	case domain.TransactionTypeSale:
		_, err := inventory.AddSold(ctx, txn.DealerID, item.ProductID, item.Quantity, at)
		return err
	default:
		return fmt.Errorf("%w: unknown transaction type %q", domain.ErrInvalidInput, txn.Type)
	}
}

// CancelTransaction moves a pending transaction to cancelled
func (s *Service) CancelTransaction(ctx context.Context, id uuid.UUID, actor string) (*domain.DealerTransaction, error) {
	var cancelled *domain.DealerTransaction

	err := s.txRunner.Run(ctx, func(repos domain.Repositories) error {
		locked, err := repos.Transactions.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !locked.PaymentStatus.CanTransitionTo(domain.PaymentStatusCancelled) {
			return fmt.Errorf("%w: transaction is %s", domain.ErrConflict, locked.PaymentStatus)
		}

		if err := repos.Transactions.MarkCancelled(ctx, id); err != nil {
			return err
		}

		locked.PaymentStatus = domain.PaymentStatusCancelled
		locked.UpdatedAt = s.now()
		cancelled = locked
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrConflict) {
			s.logger.Error("Failed to cancel transaction", err)
		}
		return nil, err
	}

	s.publishEvent(ctx, domain.EventTransactionCancelled, cancelled, actor)

	s.logger.WithFields(map[string]interface{}{
		"transaction_id": cancelled.ID,
		"dealer_id":      cancelled.DealerID,
	}).Info("Transaction cancelled successfully")

	return cancelled, nil
}

// GetTransaction retrieves a transaction with its items
func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.DealerTransaction, error) {
	txn, err := s.repos.Transactions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Transaction not found: %s", id)
		} else {
			s.logger.Error("Failed to get transaction", err)
		}
		return nil, err
	}

	return txn, nil
}

// ListTransactions retrieves a dealer's transactions, newest first
func (s *Service) ListTransactions(ctx context.Context, dealerID uuid.UUID, limit, offset int) ([]*domain.DealerTransaction, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	if _, err := s.repos.Dealers.GetByID(ctx, dealerID); err != nil {
		return nil, 0, err
	}

	txns, err := s.repos.Transactions.ListByDealer(ctx, dealerID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list transactions", err)
		return nil, 0, err
	}

	total, err := s.repos.Transactions.CountByDealer(ctx, dealerID)
	if err != nil {
		s.logger.Error("Failed to count transactions", err)
		return nil, 0, err
	}

	return txns, total, nil
}

// GetStats returns the aggregates of a dealer's completed transactions.
// Results are served from cache when present.
func (s *Service) GetStats(ctx context.Context, dealerID uuid.UUID) (*domain.DealerStats, error) {
	if s.cache != nil {
		stats, err := s.cache.GetDealerStats(ctx, dealerID)
		if err == nil {
			s.logger.Debugf("Dealer stats cache hit: %s", dealerID)
			return stats, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warnf("Dealer stats cache read failed: %v", err)
		}
	}

	if _, err := s.repos.Dealers.GetByID(ctx, dealerID); err != nil {
		return nil, err
	}

	stats, err := s.repos.Transactions.Stats(ctx, dealerID)
	if err != nil {
		s.logger.Error("Failed to compute dealer stats", err)
		return nil, err
	}

	// fill only: a completion that committed meanwhile has already written fresher stats
	if s.cache != nil {
		if _, err := s.cache.FillDealerStats(ctx, stats); err != nil {
			s.logger.Warnf("Failed to cache dealer stats: %v", err)
		}
	}

	return stats, nil
}

// GetInventory lists the inventory rows of a dealer
func (s *Service) GetInventory(ctx context.Context, dealerID uuid.UUID) ([]*domain.DealerInventory, error) {
	if _, err := s.repos.Dealers.GetByID(ctx, dealerID); err != nil {
		return nil, err
	}

	rows, err := s.repos.Inventory.ListByDealer(ctx, dealerID)
	if err != nil {
		s.logger.Error("Failed to list inventory", err)
		return nil, err
	}

	return rows, nil
}

// CODAdvance quotes the cash-on-delivery advance of a transaction
func (s *Service) CODAdvance(ctx context.Context, id uuid.UUID) (*CODQuote, error) {
	txn, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	advance := pricing.CODAdvance(txn.TotalAmount, s.cod.AdvancePercent, s.cod.Surcharge)

	return &CODQuote{
		TransactionID:  txn.ID,
		TotalAmount:    pricing.Round(txn.TotalAmount),
		AdvancePercent: s.cod.AdvancePercent,
		Surcharge:      pricing.Round(s.cod.Surcharge),
		AdvanceAmount:  advance,
		BalanceDue:     pricing.Round(txn.TotalAmount.Sub(advance)),
	}, nil
}

// refreshStats overwrites the cached stats with values computed after the commit.
// When they can't be computed the entry is dropped instead.
func (s *Service) refreshStats(ctx context.Context, dealerID uuid.UUID) {
	if s.cache == nil {
		return
	}

	stats, err := s.repos.Transactions.Stats(ctx, dealerID)
	if err == nil {
		err = s.cache.SetDealerStats(ctx, stats)
		if err == nil {
			return
		}
	}
	s.logger.Warnf("Failed to refresh stats cache for dealer %s: %v", dealerID, err)

	if err := s.cache.InvalidateDealerStats(ctx, dealerID); err != nil {
		s.logger.Warnf("Failed to invalidate stats cache for dealer %s: %v", dealerID, err)
	}
}

// publishEvent publishes a transaction event; failures are logged, never returned
func (s *Service) publishEvent(ctx context.Context, eventType string, txn *domain.DealerTransaction, actor string) {
	if s.publisher == nil {
		return
	}

	event := domain.LedgerEvent{
		EventType:     eventType,
		Timestamp:     s.now(),
		Actor:         actor,
		DealerID:      &txn.DealerID,
		TransactionID: &txn.ID,
		Payload: map[string]interface{}{
			"type":           txn.Type,
			"invoice_number": txn.InvoiceNumber,
			"total_amount":   txn.TotalAmount,
			"payment_status": txn.PaymentStatus,
		},
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal %s event", eventType)
		return
	}

	if err := s.publisher.Publish(ctx, domain.LedgerSubject, data); err != nil {
		s.logger.Errorf(err, "Failed to publish %s event", eventType)
	}
}

// newInvoiceNumber returns INV-YYYYMMDD-XXXXXXXX with a random upper-case hex suffix
func newInvoiceNumber(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("INV-%s-%s", at.Format("20060102"), strings.ToUpper(suffix))
}
