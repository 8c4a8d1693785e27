package models

import (
	"fmt"
	"time"
)

// OrderCreatedEvent is published to the orders topic exchange after a
// checkout commits.
type OrderCreatedEvent struct {
	OrderID      int64     `json:"order_id"`
	UserID       int64     `json:"user_id"`
	CustomerName string    `json:"customer_name"`
	TotalAmount  int64     `json:"total_amount"`
	ItemCount    int       `json:"item_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// OrderStatusChangedEvent is published when an admin moves an order to a new
// status.
type OrderStatusChangedEvent struct {
	OrderID   int64       `json:"order_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
	ChangedBy string      `json:"changed_by"`
	Timestamp time.Time   `json:"timestamp"`
}

// OrderRoutingKey builds the routing key for order lifecycle events.
func OrderRoutingKey(event string) string {
	return fmt.Sprintf("order.%s", event)
}
