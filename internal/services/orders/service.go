package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ahmadhn26/DelingKopi/internal/database"
	"github.com/ahmadhn26/DelingKopi/internal/logger"
	"github.com/ahmadhn26/DelingKopi/internal/models"
)

// EventPublisher emits order lifecycle events.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event interface{}, routingKey string) error
	PublishNotification(ctx context.Context, msg interface{}) error
}

// dbConn is the slice of the connection pool the order queries use.
type dbConn interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) error
}

// Service is the read side of orders plus the two admin mutations: the
// status transition and hard deletion. Orders are immutable otherwise.
type Service struct {
	db        dbConn
	publisher EventPublisher
	logger    *logger.Logger
}

// NewService creates a new orders service
func NewService(db *database.DB, publisher EventPublisher, log *logger.Logger) *Service {
	return &Service{
		db:        db,
		publisher: publisher,
		logger:    log,
	}
}

// ListOrders returns a user's own orders, newest first, each with a short
// joined line summary.
func (s *Service) ListOrders(ctx context.Context, userID int64) ([]models.OrderSummary, error) {
	return s.listOrders(ctx, database.ListOrdersByUserSQL, userID)
}

// ListAllOrders returns every order for the admin view.
func (s *Service) ListAllOrders(ctx context.Context) ([]models.OrderSummary, error) {
	return s.listOrders(ctx, database.ListAllOrdersSQL)
}

func (s *Service) listOrders(ctx context.Context, sql string, args ...interface{}) ([]models.OrderSummary, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, models.PersistenceError{Op: "order list", Err: err}
	}
	defer rows.Close()

	var summaries []models.OrderSummary
	for rows.Next() {
		var summary models.OrderSummary
		err := rows.Scan(&summary.ID, &summary.CustomerName, &summary.TotalAmount,
			&summary.Status, &summary.CreatedAt, &summary.ItemsSummary)
		if err != nil {
			return nil, models.PersistenceError{Op: "order scan", Err: err}
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, models.PersistenceError{Op: "order list", Err: err}
	}

	return summaries, nil
}

// GetOrderDetail returns one order with its lines. Non-admin requesters must
// own the order; the ownership failure is indistinguishable from a missing
// order id.
func (s *Service) GetOrderDetail(ctx context.Context, orderID, requesterID int64, isAdmin bool) (*models.Order, error) {
	var order models.Order
	err := s.db.QueryRow(ctx, database.GetOrderSQL, orderID).Scan(
		&order.ID, &order.UserID, &order.CustomerName, &order.CustomerEmail,
		&order.CustomerPhone, &order.CustomerAddress, &order.TotalAmount,
		&order.PaymentProofPath, &order.Status, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Same rejection as an ownership failure so probing ids reveals
			// nothing.
			if isAdmin {
				return nil, models.ErrOrderNotFound
			}
			return nil, models.ErrAccessDenied
		}
		return nil, models.PersistenceError{Op: "order read", Err: err}
	}

	if !isAdmin && order.UserID != requesterID {
		return nil, models.ErrAccessDenied
	}

	rows, err := s.db.Query(ctx, database.GetOrderLinesSQL, orderID)
	if err != nil {
		return nil, models.PersistenceError{Op: "order lines read", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var line models.OrderLine
		err := rows.Scan(&line.ID, &line.OrderID, &line.ItemName, &line.ItemType,
			&line.Quantity, &line.Price)
		if err != nil {
			return nil, models.PersistenceError{Op: "order line scan", Err: err}
		}
		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, models.PersistenceError{Op: "order lines read", Err: err}
	}

	return &order, nil
}

// SetStatus moves an order to a new status. Admin-only; the storage layer
// accepts any whitelisted status, the UI only exposes the forward
// processing -> completed transition.
func (s *Service) SetStatus(ctx context.Context, orderID int64, newStatus models.OrderStatus, changedBy, requestID string) error {
	var ownerID int64
	var oldStatus models.OrderStatus
	err := s.db.QueryRow(ctx, database.GetOrderOwnerSQL, orderID).Scan(&ownerID, &oldStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrOrderNotFound
		}
		return models.PersistenceError{Op: "order read", Err: err}
	}

	if err := s.db.Exec(ctx, database.UpdateOrderStatusSQL, newStatus, orderID); err != nil {
		return models.PersistenceError{Op: "status update", Err: err}
	}

	event := models.OrderStatusChangedEvent{
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: changedBy,
		Timestamp: time.Now().UTC(),
	}
	if err := s.publisher.PublishOrderEvent(ctx, event, models.OrderRoutingKey("status_changed")); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish order.status_changed", requestID, err, map[string]interface{}{
			"order_id": orderID,
		})
	}
	if err := s.publisher.PublishNotification(ctx, event); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish status notification", requestID, err, map[string]interface{}{
			"order_id": orderID,
		})
	}

	s.logger.Info("status_updated", "Order status changed", requestID, map[string]interface{}{
		"order_id":   orderID,
		"old_status": string(oldStatus),
		"new_status": string(newStatus),
		"changed_by": changedBy,
	})

	return nil
}

// DeleteOrder hard-deletes an order and its lines. Admin-only. Stock
// decremented by the order is not restored.
func (s *Service) DeleteOrder(ctx context.Context, orderID int64, requestID string) error {
	var ownerID int64
	var status models.OrderStatus
	err := s.db.QueryRow(ctx, database.GetOrderOwnerSQL, orderID).Scan(&ownerID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrOrderNotFound
		}
		return models.PersistenceError{Op: "order read", Err: err}
	}

	if err := s.db.Exec(ctx, database.DeleteOrderSQL, orderID); err != nil {
		return models.PersistenceError{Op: "order delete", Err: err}
	}

	s.logger.Info("order_deleted", "Order deleted", requestID, map[string]interface{}{
		"order_id": orderID,
	})

	return nil
}
