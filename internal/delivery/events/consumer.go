package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/camvault/dealer-ledger/internal/config"
	"github.com/camvault/dealer-ledger/internal/domain"
	"github.com/camvault/dealer-ledger/internal/pkg/logger"
)

// Consumer receives ledger events over a plain NATS subscription
type Consumer struct {
	nc     *nats.Conn
	logger *logger.Logger
	sub    *nats.Subscription
}

// NewConsumer connects to NATS
func NewConsumer(cfg *config.Config, log *logger.Logger) (*Consumer, error) {
	nc, err := connect(cfg.NATS.URL, "dealer-ledger-notifier", log)
	if err != nil {
		return nil, err
	}

	log.Infof("Connected to NATS at %s", cfg.NATS.URL)

	return &Consumer{
		nc:     nc,
		logger: log,
	}, nil
}

// Subscribe subscribes to a NATS subject and passes every message to handler
func (c *Consumer) Subscribe(subject string, handler func(data []byte) error) error {
	sub, err := c.nc.Subscribe(subject, func(msg *nats.Msg) {
		c.logger.Debugf("Received message on subject %s", subject)

		if err := handler(msg.Data); err != nil {
			c.logger.Errorf(err, "Failed to handle message on subject %s", subject)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	c.sub = sub
	c.logger.Infof("Subscribed to NATS subject: %s", subject)
	return nil
}

// Close unsubscribes and closes the NATS connection
func (c *Consumer) Close() {
	if c.sub != nil {
		if err := c.sub.Unsubscribe(); err != nil {
			c.logger.Warnf("Failed to unsubscribe from NATS: %v", err)
		}
	}
	if c.nc != nil {
		c.nc.Close()
		c.logger.Info("NATS consumer connection closed")
	}
}

// LoggingHandler logs every ledger event with its identifiers as structured fields
func LoggingHandler(log *logger.Logger) func(data []byte) error {
	return func(data []byte) error {
		var event domain.LedgerEvent
		if err := json.Unmarshal(data, &event); err != nil {
			log.Error("Failed to unmarshal event", err)
			return err
		}
		if event.EventType == "" {
			return fmt.Errorf("event without event_type")
		}

		fields := map[string]interface{}{
			"event_type": event.EventType,
			"timestamp":  event.Timestamp,
		}
		if event.Actor != "" {
			fields["actor"] = event.Actor
		}
		if event.DealerID != nil {
			fields["dealer_id"] = event.DealerID.String()
		}
		if event.TransactionID != nil {
			fields["transaction_id"] = event.TransactionID.String()
		}
		if event.ProductID != nil {
			fields["product_id"] = event.ProductID.String()
		}
		if event.Payload != nil {
			fields["payload"] = event.Payload
		}

		log.WithFields(fields).Info("Received ledger event")
		return nil
	}
}
