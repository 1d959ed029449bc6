package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/camvault/dealer-ledger/internal/domain"
	"github.com/camvault/dealer-ledger/internal/pkg/logger"
	"github.com/camvault/dealer-ledger/internal/pkg/validator"
	"github.com/camvault/dealer-ledger/internal/usecase/pricehistory"
)

// Service handles product catalog business logic
type Service struct {
	products  domain.ProductRepository
	txRunner  domain.TxRunner
	history   *pricehistory.Recorder
	publisher domain.EventPublisher
	locker    Locker
	logger    *logger.Logger
}

// NewService creates a new catalog service
func NewService(
	products domain.ProductRepository,
	txRunner domain.TxRunner,
	history *pricehistory.Recorder,
	publisher domain.EventPublisher,
	locker Locker,
	log *logger.Logger,
) *Service {
	return &Service{
		products:  products,
		txRunner:  txRunner,
		history:   history,
		publisher: publisher,
		locker:    locker,
		logger:    log,
	}
}

// Create creates a new product with derived prices
func (s *Service) Create(ctx context.Context, input ProductInput, actor string) (*domain.Product, error) {
	if err := input.validate(); err != nil {
		s.logger.Debugf("Product validation failed: %v", err)
		return nil, err
	}

	product := input.toProduct()
	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", err)
		return nil, err
	}

	s.publishEvent(ctx, domain.EventProductCreated, product.ID, actor, product)

	s.logger.WithFields(map[string]interface{}{
		"product_id":   product.ID,
		"model_number": product.ModelNumber,
	}).Info("Product created successfully")

	return product, nil
}

// GetByID retrieves a product by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Product not found: %s", id)
		} else {
			s.logger.Error("Failed to get product", err)
		}
		return nil, err
	}

	return product, nil
}

// List retrieves a paginated list of products
func (s *Service) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*domain.Product, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.products.List(ctx, activeOnly, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list products", err)
		return nil, 0, err
	}

	total, err := s.products.Count(ctx, activeOnly)
	if err != nil {
		s.logger.Error("Failed to count products", err)
		return nil, 0, err
	}

	return products, total, nil
}

// Update applies a manual edit. The product row is locked for the whole
// transaction and a manual_edit history entry precedes any price change.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput, actor string) (*domain.Product, error) {
	if err := validator.Struct(input); err != nil {
		s.logger.Debugf("Product update validation failed: %v", err)
		return nil, err
	}

	var (
		updated      *domain.Product
		pricesChange bool
	)

	err := s.txRunner.Run(ctx, func(repos domain.Repositories) error {
		current, err := repos.Products.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		next := *current
		input.applyTo(&next)
		if err := validatePricing(next.BasePrice, next.PurchasePercentage, next.SalePercentage); err != nil {
			return err
		}

		pricesChange, err = s.save(ctx, repos, current, &next, actor, domain.ChangeTypeManualEdit)
		if err != nil {
			return err
		}

		updated = &next
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrInvalidInput) {
			s.logger.Error("Failed to update product", err)
		}
		return nil, err
	}

	if pricesChange {
		s.publishEvent(ctx, domain.EventProductPriceChanged, updated.ID, actor, updated)
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id":    updated.ID,
		"prices_change": pricesChange,
		"actor":         actor,
	}).Info("Product updated successfully")

	return updated, nil
}

// save reprices next, records history when prices moved and overwrites the row.
// It must run inside a transaction holding the row lock on current.
func (s *Service) save(
	ctx context.Context,
	repos domain.Repositories,
	current, next *domain.Product,
	actor string,
	changeType domain.ChangeType,
) (bool, error) {
	next.Reprice()

	changed := next.PricesDiffer(current)
	if changed {
		change := pricehistory.ChangeFor(current, next, actor, changeType)
		if _, err := s.history.Record(ctx, repos.PriceHistory, change); err != nil {
			return false, err
		}
	}

	if err := repos.Products.Update(ctx, next); err != nil {
		return false, err
	}

	return changed, nil
}

// Deactivate soft-deletes a product
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID, actor string) error {
	if err := s.products.Deactivate(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Product not found: %s", id)
		} else {
			s.logger.Error("Failed to deactivate product", err)
		}
		return err
	}

	s.publishEvent(ctx, domain.EventProductDeactivated, id, actor, nil)

	s.logger.WithFields(map[string]interface{}{
		"product_id": id,
	}).Info("Product deactivated successfully")

	return nil
}

// PriceHistory lists the price changes of an existing product, newest first
func (s *Service) PriceHistory(ctx context.Context, id uuid.UUID, limit, offset int) ([]*domain.PriceHistoryEntry, int, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, 0, err
	}

	return s.history.List(ctx, id, limit, offset)
}

// publishEvent publishes a product event; failures are logged, never returned
func (s *Service) publishEvent(ctx context.Context, eventType string, productID uuid.UUID, actor string, payload any) {
	if s.publisher == nil {
		return
	}

	event := domain.LedgerEvent{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Actor:     actor,
		Payload:   payload,
	}
	if productID != uuid.Nil {
		event.ProductID = &productID
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
