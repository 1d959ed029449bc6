package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camvault/dealer-ledger/internal/domain"
	"github.com/camvault/dealer-ledger/internal/pkg/logger"
)

// fakeRefresher records refreshes and fails the first failFirst calls
type fakeRefresher struct {
	mu        sync.Mutex
	calls     map[uuid.UUID]int
	failFirst int
	block     chan struct{}
}

func newFakeRefresher() *fakeRefresher {
	return &fakeRefresher{calls: make(map[uuid.UUID]int)}
}

func (f *fakeRefresher) Refresh(ctx context.Context, dealerID uuid.UUID) error {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[dealerID]++
	if f.failFirst > 0 {
		f.failFirst--
		return errors.New("database unavailable")
	}
	return nil
}

func (f *fakeRefresher) count(dealerID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[dealerID]
}

func completedEvent(t *testing.T, dealerID uuid.UUID, ts time.Time) []byte {
	t.Helper()

	data, err := json.Marshal(domain.LedgerEvent{
		EventType: domain.EventTransactionCompleted,
		Timestamp: ts,
		DealerID:  &dealerID,
	})
	require.NoError(t, err)
	return data
}

func setupTestWorker(t *testing.T) (*StatsWorker, *fakeRefresher) {
	t.Helper()

	refresher := newFakeRefresher()
	return NewStatsWorker(refresher, logger.New("test")), refresher
}

func TestStatsWorker_HandleEvent_Success(t *testing.T) {
	worker, refresher := setupTestWorker(t)
	dealerID := uuid.New()

	err := worker.HandleEvent(completedEvent(t, dealerID, time.Now()))
	assert.NoError(t, err)
	assert.Equal(t, 1, worker.GetPendingCount())

	time.Sleep(debounceWindow + 100*time.Millisecond)

	assert.Equal(t, 0, worker.GetPendingCount())
	assert.Equal(t, 1, refresher.count(dealerID))
}

func TestStatsWorker_HandleEvent_InvalidJSON(t *testing.T) {
	worker, _ := setupTestWorker(t)

	err := worker.HandleEvent([]byte(`{invalid json}`))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestStatsWorker_HandleEvent_SkipsIrrelevantEvents(t *testing.T) {
	worker, _ := setupTestWorker(t)
	dealerID := uuid.New()
	productID := uuid.New()

	events := []domain.LedgerEvent{
		{EventType: domain.EventProductPriceChanged, Timestamp: time.Now(), ProductID: &productID},
		{EventType: domain.EventTransactionCreated, Timestamp: time.Now(), DealerID: &dealerID},
		{EventType: domain.EventTransactionCancelled, Timestamp: time.Now(), DealerID: &dealerID},
	}

	for _, event := range events {
		data, err := json.Marshal(event)
		require.NoError(t, err)
		assert.NoError(t, worker.HandleEvent(data))
	}

	assert.Equal(t, 0, worker.GetPendingCount())
}

func TestStatsWorker_Debouncing_MultipleEvents(t *testing.T) {
	worker, refresher := setupTestWorker(t)
	dealerID := uuid.New()

	for i := 0; i < 10; i++ {
		assert.NoError(t, worker.HandleEvent(completedEvent(t, dealerID, time.Now())))
		time.Sleep(50 * time.Millisecond)
	}

	assert.Equal(t, 1, worker.GetPendingCount())

	time.Sleep(debounceWindow + 200*time.Millisecond)

	assert.Equal(t, 0, worker.GetPendingCount())
	assert.Equal(t, 1, refresher.count(dealerID))
}

func TestStatsWorker_IgnoresStaleEvents(t *testing.T) {
	worker, refresher := setupTestWorker(t)
	dealerID := uuid.New()
	now := time.Now()

	assert.NoError(t, worker.HandleEvent(completedEvent(t, dealerID, now)))
	assert.NoError(t, worker.HandleEvent(completedEvent(t, dealerID, now.Add(-time.Minute))))

	worker.mu.Lock()
	pending := worker.pendingUpdates[dealerID]
	worker.mu.Unlock()
	require.NotNil(t, pending)
	assert.True(t, pending.timestamp.Equal(now))

	time.Sleep(debounceWindow + 100*time.Millisecond)

	assert.Equal(t, 1, refresher.count(dealerID))
}

func TestStatsWorker_MultipleDealers(t *testing.T) {
	worker, refresher := setupTestWorker(t)
	dealers := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	for _, id := range dealers {
		assert.NoError(t, worker.HandleEvent(completedEvent(t, id, time.Now())))
	}
	assert.Equal(t, 3, worker.GetPendingCount())

	time.Sleep(debounceWindow + 300*time.Millisecond)

	assert.Equal(t, 0, worker.GetPendingCount())
	for _, id := range dealers {
		assert.Equal(t, 1, refresher.count(id))
	}
}

func TestStatsWorker_RetryLogic(t *testing.T) {
	worker, refresher := setupTestWorker(t)
	refresher.failFirst = 2
	dealerID := uuid.New()

	assert.NoError(t, worker.HandleEvent(completedEvent(t, dealerID, time.Now())))

	// debounce plus two backoffs (100ms, 200ms)
	time.Sleep(debounceWindow + time.Second)

	assert.Equal(t, 3, refresher.count(dealerID))
}

func TestStatsWorker_GracefulShutdown(t *testing.T) {
	worker, refresher := setupTestWorker(t)
	dealerID := uuid.New()

	assert.NoError(t, worker.HandleEvent(completedEvent(t, dealerID, time.Now())))
	time.Sleep(debounceWindow + 100*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, worker.Shutdown(ctx))
	assert.Equal(t, 0, worker.GetPendingCount())
	assert.Equal(t, 1, refresher.count(dealerID))
}

func TestStatsWorker_ShutdownCancelsPendingUpdates(t *testing.T) {
	worker, refresher := setupTestWorker(t)
	dealerID := uuid.New()

	assert.NoError(t, worker.HandleEvent(completedEvent(t, dealerID, time.Now())))
	assert.Equal(t, 1, worker.GetPendingCount())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, worker.Shutdown(ctx))
	assert.Equal(t, 0, worker.GetPendingCount())

	// events after shutdown are ignored
	assert.NoError(t, worker.HandleEvent(completedEvent(t, dealerID, time.Now())))
	assert.Equal(t, 0, worker.GetPendingCount())

	time.Sleep(debounceWindow + 100*time.Millisecond)
	assert.Equal(t, 0, refresher.count(dealerID))
}

func TestStatsWorker_ShutdownTimeout(t *testing.T) {
	worker, refresher := setupTestWorker(t)
	refresher.block = make(chan struct{})
	defer close(refresher.block)

	assert.NoError(t, worker.HandleEvent(completedEvent(t, uuid.New(), time.Now())))
	time.Sleep(debounceWindow + 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := worker.Shutdown(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
