package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/camvault/dealer-ledger/internal/domain"
)

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetByModelNumberForUpdate(ctx context.Context, modelNumber string) (*domain.Product, error) {
	args := m.Called(ctx, modelNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*domain.Product, error) {
	args := m.Called(ctx, activeOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, activeOnly bool) (int, error) {
	args := m.Called(ctx, activeOnly)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPriceHistoryRepository is a mock implementation of domain.PriceHistoryRepository
type MockPriceHistoryRepository struct {
	mock.Mock
}

func (m *MockPriceHistoryRepository) Append(ctx context.Context, entry *domain.PriceHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPriceHistoryRepository) ListByProductID(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*domain.PriceHistoryEntry, error) {
	args := m.Called(ctx, productID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PriceHistoryEntry), args.Error(1)
}

func (m *MockPriceHistoryRepository) CountByProductID(ctx context.Context, productID uuid.UUID) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *domain.DealerTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DealerTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DealerTransaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.DealerTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DealerTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByDealer(ctx context.Context, dealerID uuid.UUID, limit, offset int) ([]*domain.DealerTransaction, error) {
	args := m.Called(ctx, dealerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DealerTransaction), args.Error(1)
}

func (m *MockTransactionRepository) CountByDealer(ctx context.Context, dealerID uuid.UUID) (int, error) {
	args := m.Called(ctx, dealerID)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) MarkCompleted(ctx context.Context, id uuid.UUID, proof domain.PaymentProof, completedAt time.Time) error {
	args := m.Called(ctx, id, proof, completedAt)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) Stats(ctx context.Context, dealerID uuid.UUID) (*domain.DealerStats, error) {
	args := m.Called(ctx, dealerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DealerStats), args.Error(1)
}

// MockInventoryRepository is a mock implementation of domain.InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Get(ctx context.Context, dealerID, productID uuid.UUID) (*domain.DealerInventory, error) {
	args := m.Called(ctx, dealerID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DealerInventory), args.Error(1)
}

func (m *MockInventoryRepository) AddPurchased(ctx context.Context, dealerID, productID uuid.UUID, qty int, at time.Time) (*domain.DealerInventory, error) {
	args := m.Called(ctx, dealerID, productID, qty, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DealerInventory), args.Error(1)
}

func (m *MockInventoryRepository) AddSold(ctx context.Context, dealerID, productID uuid.UUID, qty int, at time.Time) (*domain.DealerInventory, error) {
	args := m.Called(ctx, dealerID, productID, qty, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DealerInventory), args.Error(1)
}

func (m *MockInventoryRepository) ListByDealer(ctx context.Context, dealerID uuid.UUID) ([]*domain.DealerInventory, error) {
	args := m.Called(ctx, dealerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DealerInventory), args.Error(1)
}

// MockDealerRepository is a mock implementation of domain.DealerRepository
type MockDealerRepository struct {
	mock.Mock
}

func (m *MockDealerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dealer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dealer), args.Error(1)
}

// passthroughTx runs fn against fixed repositories without a real transaction
type passthroughTx struct {
	repos domain.Repositories
}

func (p passthroughTx) Run(ctx context.Context, fn func(repos domain.Repositories) error) error {
	return fn(p.repos)
}

// stubLocker grants the lock unless err is set
type stubLocker struct {
	err error
}

func (l stubLocker) Obtain(ctx context.Context, key string) (domain.Lease, error) {
	if l.err != nil {
		return nil, l.err
	}
	return stubLease{}, nil
}

type stubLease struct{}

func (stubLease) Refresh(context.Context) error { return nil }

func (stubLease) Release(context.Context) error { return nil }
