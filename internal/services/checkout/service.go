package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/ahmadhn26/DelingKopi/internal/logger"
	"github.com/ahmadhn26/DelingKopi/internal/models"
)

// OrderStore commits a validated checkout transactionally.
type OrderStore interface {
	CreateOrder(ctx context.Context, req *models.CheckoutRequest, proofPath string) (*models.Order, error)
}

// CartClearer empties a user's server-side cart after a committed checkout.
type CartClearer interface {
	Clear(ctx context.Context, userID int64) error
}

// EventPublisher emits order lifecycle events.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event interface{}, routingKey string) error
}

// ProofSaver stores and removes payment proof uploads.
type ProofSaver interface {
	Save(upload ProofUpload) (string, error)
	Remove(path string) error
}

// commitTimeout bounds one checkout commit end to end, on top of the
// per-transaction lock_timeout the repository sets.
const commitTimeout = 10 * time.Second

// Service is the order engine: it takes a reconciled checkout request and
// either commits it completely or leaves no trace.
type Service struct {
	store     OrderStore
	carts     CartClearer
	proofs    ProofSaver
	publisher EventPublisher
	timeout   time.Duration
	logger    *logger.Logger
}

// NewService creates a new checkout service
func NewService(store OrderStore, carts CartClearer, proofs ProofSaver, publisher EventPublisher, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		carts:     carts,
		proofs:    proofs,
		publisher: publisher,
		timeout:   commitTimeout,
		logger:    log,
	}
}

// PlaceOrder runs a checkout attempt end to end. Field and cart validation
// and the proof upload happen before any database work; a missing or
// malformed proof is a hard reject. The commit itself is a single
// transaction, and a stored proof is removed again on any failure after it
// was written, so no resource outlives a failed attempt.
func (s *Service) PlaceOrder(ctx context.Context, req *models.CheckoutRequest, proof ProofUpload, requestID string) (*models.CheckoutResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	proofPath, err := s.proofs.Save(proof)
	if err != nil {
		return nil, err
	}

	commitCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	order, err := s.store.CreateOrder(commitCtx, req, proofPath)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = models.PersistenceError{Op: "checkout commit", Err: err}
		}
		if removeErr := s.proofs.Remove(proofPath); removeErr != nil {
			s.logger.Error("proof_cleanup_failed", "Failed to remove proof after aborted checkout", requestID, removeErr, map[string]interface{}{
				"proof_path": proofPath,
			})
		}

		var stockErr models.InsufficientStockError
		if errors.As(err, &stockErr) {
			s.logger.Debug("checkout_rejected", "Checkout rejected on stock", requestID, map[string]interface{}{
				"user_id":   req.UserID,
				"item_id":   stockErr.ItemID,
				"item_type": string(stockErr.ItemType),
				"requested": stockErr.Requested,
				"available": stockErr.Available,
			})
		}
		return nil, err
	}

	// The order is committed; everything below is best effort and must not
	// fail the checkout.
	if req.UserID > 0 {
		if err := s.carts.Clear(ctx, req.UserID); err != nil {
			s.logger.Error("cart_clear_failed", "Failed to clear cart after checkout", requestID, err, map[string]interface{}{
				"user_id":  req.UserID,
				"order_id": order.ID,
			})
		}
	}

	event := models.OrderCreatedEvent{
		OrderID:      order.ID,
		UserID:       order.UserID,
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount,
		ItemCount:    len(order.Lines),
		CreatedAt:    order.CreatedAt,
	}
	if err := s.publisher.PublishOrderEvent(ctx, event, models.OrderRoutingKey("created")); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish order.created", requestID, err, map[string]interface{}{
			"order_id": order.ID,
		})
	}

	s.logger.Info("order_created", "Checkout committed", requestID, map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
		"items":        len(order.Lines),
	})

	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return &models.CheckoutResponse{
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		CreatedAt:   createdAt,
	}, nil
}
