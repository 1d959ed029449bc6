package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LedgerSubject is the NATS subject every ledger event is published on
const LedgerSubject = "ledger.events"

// Event types
const (
	EventProductCreated       = "product.created"
	EventProductPriceChanged  = "product.price_changed"
	EventProductDeactivated   = "product.deactivated"
	EventTransactionCreated   = "transaction.created"
	EventTransactionCompleted = "transaction.completed"
	EventTransactionCancelled = "transaction.cancelled"
	EventBulkUploadFinished   = "bulk_upload.finished"
)

// LedgerEvent is the payload published on LedgerSubject
type LedgerEvent struct {
	EventType     string     `json:"event_type"`
	Timestamp     time.Time  `json:"timestamp"`
	Actor         string     `json:"actor,omitempty"`
	DealerID      *uuid.UUID `json:"dealer_id,omitempty"`
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
	ProductID     *uuid.UUID `json:"product_id,omitempty"`
	Payload       any        `json:"payload,omitempty"`
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}
