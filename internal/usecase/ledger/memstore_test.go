package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/camvault/dealer-ledger/internal/domain"
)

type invKey struct {
	dealerID  uuid.UUID
	productID uuid.UUID
}

// memLedger is an in-memory ledger store. Transactions run concurrently,
// hold per-row locks taken by GetByIDForUpdate and roll back through an undo log.
type memLedger struct {
	mu sync.Mutex

	dealers   map[uuid.UUID]*domain.Dealer
	products  map[uuid.UUID]*domain.Product
	txns      map[uuid.UUID]*domain.DealerTransaction
	inventory map[invKey]*domain.DealerInventory
	rowLocks  map[uuid.UUID]*sync.Mutex
}

func newMemLedger() *memLedger {
	return &memLedger{
		dealers:   make(map[uuid.UUID]*domain.Dealer),
		products:  make(map[uuid.UUID]*domain.Product),
		txns:      make(map[uuid.UUID]*domain.DealerTransaction),
		inventory: make(map[invKey]*domain.DealerInventory),
		rowLocks:  make(map[uuid.UUID]*sync.Mutex),
	}
}

// memScope is the state of one running database transaction
type memScope struct {
	undo   []func()
	locked map[uuid.UUID]*sync.Mutex
}

func (s *memScope) record(fn func()) {
	if s != nil {
		s.undo = append(s.undo, fn)
	}
}

func (m *memLedger) repos(scope *memScope) domain.Repositories {
	return domain.Repositories{
		Products:     &memProducts{m: m},
		Transactions: &memTxns{m: m, scope: scope},
		Inventory:    &memInventory{m: m, scope: scope},
		Dealers:      &memDealers{m: m},
	}
}

func (m *memLedger) Run(ctx context.Context, fn func(repos domain.Repositories) error) error {
	scope := &memScope{locked: make(map[uuid.UUID]*sync.Mutex)}

	err := fn(m.repos(scope))
	if err != nil {
		m.mu.Lock()
		for i := len(scope.undo) - 1; i >= 0; i-- {
			scope.undo[i]()
		}
		m.mu.Unlock()
	}

	for _, l := range scope.locked {
		l.Unlock()
	}
	return err
}

func (m *memLedger) addDealer(active bool) *domain.Dealer {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := &domain.Dealer{ID: uuid.New(), Name: "Dealer", IsActive: active, CreatedAt: time.Now()}
	m.dealers[d.ID] = d
	return d
}

func (m *memLedger) addProduct(model, purchasePrice, salePrice string) *domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := &domain.Product{
		ID:            uuid.New(),
		ModelNumber:   model,
		PurchasePrice: decimal.RequireFromString(purchasePrice),
		SalePrice:     decimal.RequireFromString(salePrice),
		IsActive:      true,
	}
	m.products[p.ID] = p
	return p
}

func (m *memLedger) stock(dealerID, productID uuid.UUID) domain.DealerInventory {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.inventory[invKey{dealerID, productID}]
	if !ok {
		return domain.DealerInventory{}
	}
	return *row
}

func (m *memLedger) status(id uuid.UUID) domain.PaymentStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.txns[id].PaymentStatus
}

func copyTxn(t *domain.DealerTransaction) *domain.DealerTransaction {
	cp := *t
	cp.Items = append([]domain.TransactionItem(nil), t.Items...)
	return &cp
}

type memTxns struct {
	m     *memLedger
	scope *memScope
}

func (r *memTxns) Create(ctx context.Context, txn *domain.DealerTransaction) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, existing := range r.m.txns {
		if existing.InvoiceNumber == txn.InvoiceNumber {
			return domain.ErrAlreadyExists
		}
	}

	r.m.txns[txn.ID] = copyTxn(txn)
	id := txn.ID
	r.scope.record(func() { delete(r.m.txns, id) })
	return nil
}

func (r *memTxns) GetByID(ctx context.Context, id uuid.UUID) (*domain.DealerTransaction, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	t, ok := r.m.txns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyTxn(t), nil
}

func (r *memTxns) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.DealerTransaction, error) {
	if r.scope != nil {
		if _, held := r.scope.locked[id]; !held {
			r.m.mu.Lock()
			l, ok := r.m.rowLocks[id]
			if !ok {
				l = &sync.Mutex{}
				r.m.rowLocks[id] = l
			}
			r.m.mu.Unlock()

			l.Lock()
			r.scope.locked[id] = l
		}
	}
	return r.GetByID(ctx, id)
}

func (r *memTxns) ListByDealer(ctx context.Context, dealerID uuid.UUID, limit, offset int) ([]*domain.DealerTransaction, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var out []*domain.DealerTransaction
	for _, t := range r.m.txns {
		if t.DealerID == dealerID {
			cp := copyTxn(t)
			cp.Items = nil
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if offset >= len(out) {
		return []*domain.DealerTransaction{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r *memTxns) CountByDealer(ctx context.Context, dealerID uuid.UUID) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	n := 0
	for _, t := range r.m.txns {
		if t.DealerID == dealerID {
			n++
		}
	}
	return n, nil
}

func (r *memTxns) transition(id uuid.UUID, apply func(t *domain.DealerTransaction)) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	t, ok := r.m.txns[id]
	if !ok || t.PaymentStatus != domain.PaymentStatusPending {
		return domain.ErrConflict
	}

	before := copyTxn(t)
	apply(t)
	r.scope.record(func() { r.m.txns[id] = before })
	return nil
}

func (r *memTxns) MarkCompleted(ctx context.Context, id uuid.UUID, proof domain.PaymentProof, completedAt time.Time) error {
	return r.transition(id, func(t *domain.DealerTransaction) {
		t.PaymentStatus = domain.PaymentStatusCompleted
		t.PaymentRef = &proof.PaymentRef
		t.PaymentSignature = &proof.Signature
		if proof.Method != "" {
			t.PaymentMethod = proof.Method
		}
		t.CompletedAt = &completedAt
		t.UpdatedAt = completedAt
	})
}

func (r *memTxns) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	return r.transition(id, func(t *domain.DealerTransaction) {
		t.PaymentStatus = domain.PaymentStatusCancelled
	})
}

func (r *memTxns) Stats(ctx context.Context, dealerID uuid.UUID) (*domain.DealerStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	stats := &domain.DealerStats{DealerID: dealerID}
	for _, t := range r.m.txns {
		if t.DealerID != dealerID || t.PaymentStatus != domain.PaymentStatusCompleted {
			continue
		}
		switch t.Type {
		case domain.TransactionTypePurchase:
			stats.TotalPurchases++
			stats.TotalPurchaseAmount = stats.TotalPurchaseAmount.Add(t.TotalAmount)
		case domain.TransactionTypeSale:
			stats.TotalSales++
			stats.TotalSaleAmount = stats.TotalSaleAmount.Add(t.TotalAmount)
		}
	}
	stats.Finalize()
	return stats, nil
}

type memInventory struct {
	m     *memLedger
	scope *memScope
}

func (r *memInventory) Get(ctx context.Context, dealerID, productID uuid.UUID) (*domain.DealerInventory, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	row, ok := r.m.inventory[invKey{dealerID, productID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *memInventory) AddPurchased(ctx context.Context, dealerID, productID uuid.UUID, qty int, at time.Time) (*domain.DealerInventory, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	key := invKey{dealerID, productID}
	row, ok := r.m.inventory[key]
	if !ok {
		row = &domain.DealerInventory{DealerID: dealerID, ProductID: productID}
		r.m.inventory[key] = row
		r.scope.record(func() { delete(r.m.inventory, key) })
	} else {
		before := *row
		r.scope.record(func() { *r.m.inventory[key] = before })
	}

	row.QuantityPurchased += qty
	row.QuantityAvailable = row.QuantityPurchased - row.QuantitySold
	row.LastPurchaseAt = &at
	row.UpdatedAt = at

	cp := *row
	return &cp, nil
}

func (r *memInventory) AddSold(ctx context.Context, dealerID, productID uuid.UUID, qty int, at time.Time) (*domain.DealerInventory, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	key := invKey{dealerID, productID}
	row, ok := r.m.inventory[key]
	if !ok || row.QuantityPurchased-row.QuantitySold < qty {
		return nil, domain.ErrInsufficientStock
	}

	before := *row
	r.scope.record(func() { *r.m.inventory[key] = before })

	row.QuantitySold += qty
	row.QuantityAvailable = row.QuantityPurchased - row.QuantitySold
	row.LastSaleAt = &at
	row.UpdatedAt = at

	cp := *row
	return &cp, nil
}

func (r *memInventory) ListByDealer(ctx context.Context, dealerID uuid.UUID) ([]*domain.DealerInventory, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var out []*domain.DealerInventory
	for key, row := range r.m.inventory {
		if key.dealerID == dealerID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memDealers struct {
	m *memLedger
}

func (r *memDealers) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dealer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	d, ok := r.m.dealers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// memProducts serves product lookups; catalog writes are not used by the ledger
type memProducts struct {
	domain.ProductRepository
	m *memLedger
}

func (r *memProducts) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var out []*domain.Product
	for _, id := range ids {
		if p, ok := r.m.products[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}
