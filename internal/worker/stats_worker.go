package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/camvault/dealer-ledger/internal/domain"
	"github.com/camvault/dealer-ledger/internal/pkg/logger"
)

const (
	// Debounce window - collect events for same dealer within this duration
	debounceWindow = 1 * time.Second

	// Retry configuration
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
)

// Refresher recomputes the stats of one dealer
type Refresher interface {
	Refresh(ctx context.Context, dealerID uuid.UUID) error
}

// StatsWorker consumes ledger events and refreshes dealer stats asynchronously
type StatsWorker struct {
	refresher Refresher
	logger    *logger.Logger

	// Debouncing state
	mu             sync.Mutex
	pendingUpdates map[uuid.UUID]*pendingUpdate
	shutdownCh     chan struct{}
	wg             sync.WaitGroup
	ctx            context.Context
	cancel         context.CancelFunc
}

type pendingUpdate struct {
	dealerID  uuid.UUID
	timestamp time.Time
	timer     *time.Timer
}

// NewStatsWorker creates a new stats worker
func NewStatsWorker(refresher Refresher, logger *logger.Logger) *StatsWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &StatsWorker{
		refresher:      refresher,
		logger:         logger,
		pendingUpdates: make(map[uuid.UUID]*pendingUpdate),
		shutdownCh:     make(chan struct{}),
		ctx:            ctx,
		cancel:         cancel,
	}
}

// HandleEvent processes a ledger event. Events that carry no dealer are acknowledged and skipped.
func (w *StatsWorker) HandleEvent(data []byte) error {
	var event domain.LedgerEvent
	if err := json.Unmarshal(data, &event); err != nil {
		w.logger.WithFields(map[string]any{
			"error": err.Error(),
		}).Error("Failed to unmarshal ledger event", err)
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if event.DealerID == nil || *event.DealerID == uuid.Nil {
		w.logger.Debugf("Skipping %s event without dealer", event.EventType)
		return nil
	}

	// only completed transactions move the aggregates
	if event.EventType != domain.EventTransactionCompleted {
		w.logger.Debugf("Skipping %s event for dealer %s", event.EventType, event.DealerID)
		return nil
	}

	w.logger.WithFields(map[string]any{
		"event_type": event.EventType,
		"dealer_id":  event.DealerID.String(),
		"timestamp":  event.Timestamp,
	}).Info("Received ledger event")

	w.scheduleUpdate(*event.DealerID, event.Timestamp)

	return nil
}

// scheduleUpdate debounces refreshes: many events for one dealer within the window yield one refresh
func (w *StatsWorker) scheduleUpdate(dealerID uuid.UUID, timestamp time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.shutdownCh:
		w.logger.Info("Worker shutting down, ignoring new event")
		return
	default:
	}

	existing, found := w.pendingUpdates[dealerID]

	if found {
		if timestamp.Before(existing.timestamp) {
			w.logger.WithFields(map[string]any{
				"dealer_id":   dealerID.String(),
				"existing_ts": existing.timestamp,
				"event_ts":    timestamp,
			}).Debug("Ignoring stale event")
			return
		}

		if existing.timer.Stop() {
			w.logger.WithFields(map[string]any{
				"dealer_id": dealerID.String(),
			}).Debug("Debouncing: resetting timer for dealer")
		} else {
			// fired but not yet running; it keeps its own wg slot
			w.wg.Add(1)
		}
	} else {
		w.wg.Add(1)
	}

	update := &pendingUpdate{
		dealerID:  dealerID,
		timestamp: timestamp,
	}
	update.timer = time.AfterFunc(debounceWindow, func() {
		w.processUpdate(update)
	})

	w.pendingUpdates[dealerID] = update
}

// processUpdate runs the refresh with retry and exponential backoff
func (w *StatsWorker) processUpdate(update *pendingUpdate) {
	defer w.wg.Done()

	dealerID := update.dealerID

	w.mu.Lock()
	if w.pendingUpdates[dealerID] == update {
		delete(w.pendingUpdates, dealerID)
	}
	w.mu.Unlock()

	w.logger.WithFields(map[string]any{
		"dealer_id": dealerID.String(),
	}).Info("Processing stats refresh")

	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			w.logger.WithFields(map[string]any{
				"dealer_id":  dealerID.String(),
				"attempt":    attempt + 1,
				"backoff_ms": backoff.Milliseconds(),
			}).Warn("Retrying stats refresh")

			select {
			case <-time.After(backoff):
			case <-w.ctx.Done():
				w.logger.Info("Worker context cancelled, aborting retry")
				return
			}

			backoff *= 2
		}

		ctx, cancel := context.WithTimeout(w.ctx, 5*time.Second)
		err := w.refresher.Refresh(ctx, dealerID)
		cancel()

		if err == nil {
			return
		}

		lastErr = err
		w.logger.WithFields(map[string]any{
			"dealer_id": dealerID.String(),
			"attempt":   attempt + 1,
		}).Error("Failed to refresh dealer stats", err)
	}

	w.logger.WithFields(map[string]any{
		"dealer_id":   dealerID.String(),
		"max_retries": maxRetries,
	}).Error("Stats refresh failed after all retries", lastErr)
}

// Shutdown stops accepting events, cancels pending timers and waits for in-flight refreshes
func (w *StatsWorker) Shutdown(ctx context.Context) error {
	w.logger.Info("Shutting down stats worker...")

	close(w.shutdownCh)
	w.cancel()

	w.mu.Lock()
	pendingCount := 0
	for _, update := range w.pendingUpdates {
		// a timer that already fired owns its own wg.Done
		if update.timer.Stop() {
			w.wg.Done()
			pendingCount++
		}
	}
	w.pendingUpdates = make(map[uuid.UUID]*pendingUpdate)
	w.mu.Unlock()

	w.logger.WithFields(map[string]any{
		"cancelled_updates": pendingCount,
	}).Info("Cancelled pending updates")

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("All in-flight updates completed")
		return nil
	case <-ctx.Done():
		w.logger.Warn("Shutdown timeout reached, forcing exit")
		return ctx.Err()
	}
}

// GetPendingCount returns the number of debounced refreshes waiting to run
func (w *StatsWorker) GetPendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pendingUpdates)
}
