package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/camvault/dealer-ledger/internal/config"
	"github.com/camvault/dealer-ledger/internal/pkg/logger"
)

const (
	publishRetryAttempts = 3
	publishRetryWait     = 250 * time.Millisecond
)

// connect opens a NATS connection that keeps reconnecting and reports its state changes
func connect(url, name string, log *logger.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Error("Disconnected from NATS", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Infof("Reconnected to NATS at %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

// Publisher stores ledger events on the LEDGER JetStream stream
type Publisher struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	logger *logger.Logger
}

// NewPublisher connects to NATS and creates a JetStream publisher
func NewPublisher(cfg *config.Config, log *logger.Logger) (*Publisher, error) {
	nc, err := connect(cfg.NATS.URL, "dealer-ledger-api", log)
	if err != nil {
		return nil, err
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	log.With("url", cfg.NATS.URL).Info("Connected to NATS JetStream")

	return &Publisher{
		nc:     nc,
		js:     js,
		logger: log,
	}, nil
}

// JetStream exposes the context used to declare the stream on startup
func (p *Publisher) JetStream() nats.JetStreamContext {
	return p.js
}

// Publish waits for the LEDGER stream to acknowledge the event.
// Callers publish after their DB commit, so a failure here is logged by them and not rolled back.
func (p *Publisher) Publish(ctx context.Context, subject string, data []byte) error {
	pubAck, err := p.js.Publish(subject, data,
		nats.Context(ctx),
		nats.ExpectStream(StreamName),
		nats.RetryAttempts(publishRetryAttempts),
		nats.RetryWait(publishRetryWait),
	)
	if err != nil {
		return fmt.Errorf("failed to publish ledger event on %s: %w", subject, err)
	}

	p.logger.WithFields(map[string]interface{}{
		"subject":  subject,
		"sequence": pubAck.Sequence,
	}).Debug("Ledger event stored")

	return nil
}

// Close drains and closes the NATS connection
func (p *Publisher) Close() {
	if p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
	p.logger.Info("NATS publisher connection closed")
}
