package models

import (
	"regexp"
	"strings"
	"time"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
)

// ValidateOrderStatus whitelists the known order statuses.
func ValidateOrderStatus(raw string) (OrderStatus, error) {
	switch OrderStatus(raw) {
	case StatusProcessing, StatusCompleted:
		return OrderStatus(raw), nil
	default:
		return "", ValidationError{
			Field:   "status",
			Message: "must be one of: processing, completed",
		}
	}
}

// Order is a committed checkout. It is created exactly once by the order
// engine and is immutable afterwards except for the admin status transition
// and deletion.
type Order struct {
	ID               int64       `json:"id" db:"id"`
	UserID           int64       `json:"user_id" db:"user_id"`
	CustomerName     string      `json:"customer_name" db:"customer_name"`
	CustomerEmail    string      `json:"customer_email" db:"customer_email"`
	CustomerPhone    string      `json:"customer_phone" db:"customer_phone"`
	CustomerAddress  string      `json:"customer_address" db:"customer_address"`
	TotalAmount      int64       `json:"total_amount" db:"total_amount"`
	PaymentProofPath string      `json:"payment_proof" db:"payment_proof"`
	Status           OrderStatus `json:"status" db:"status"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	Lines            []OrderLine `json:"items,omitempty"`
}

// OrderLine snapshots one cart line at purchase time. It carries the item
// name and price rather than a catalog foreign key so later catalog edits
// never change order history.
type OrderLine struct {
	ID       int64    `json:"id" db:"id"`
	OrderID  int64    `json:"order_id" db:"order_id"`
	ItemName string   `json:"item_name" db:"item_name"`
	ItemType ItemType `json:"item_type" db:"item_type"`
	Quantity int      `json:"quantity" db:"quantity"`
	Price    int64    `json:"price" db:"price"`
}

// OrderSummary is one row of a user's or the admin's order listing.
type OrderSummary struct {
	ID           int64       `json:"id"`
	CustomerName string      `json:"customer_name"`
	TotalAmount  int64       `json:"total_amount"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	ItemsSummary string      `json:"items_summary,omitempty"`
}

// CheckoutRequest is a checkout submission: contact fields plus the cart
// snapshot the client holds. The payment proof travels separately as a
// multipart file.
type CheckoutRequest struct {
	UserID          int64      `json:"user_id"`
	CustomerName    string     `json:"customer_name"`
	CustomerEmail   string     `json:"customer_email"`
	CustomerPhone   string     `json:"customer_phone"`
	CustomerAddress string     `json:"customer_address"`
	Cart            []CartLine `json:"cart"`
}

// CheckoutResponse is returned after a committed checkout.
type CheckoutResponse struct {
	OrderID     int64       `json:"order_id"`
	Status      OrderStatus `json:"status"`
	TotalAmount int64       `json:"total_amount"`
	CreatedAt   time.Time   `json:"created_at"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate checks the contact fields and cart lines of a checkout request.
// All contact fields are required after trimming; validation runs before any
// database work starts.
func (req *CheckoutRequest) Validate() error {
	if err := req.ValidateContact(); err != nil {
		return err
	}
	return ValidateCartLines(req.Cart)
}

// ValidateContact checks and trims the contact fields only. The handler runs
// it before cart reconciliation so a bad submission never reads stock.
func (req *CheckoutRequest) ValidateContact() error {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.CustomerAddress = strings.TrimSpace(req.CustomerAddress)

	if req.CustomerName == "" {
		return ValidationError{Field: "customer_name", Message: "customer name is required"}
	}
	if len(req.CustomerName) > 100 {
		return ValidationError{Field: "customer_name", Message: "customer name must be less than 100 characters"}
	}
	if req.CustomerEmail == "" {
		return ValidationError{Field: "customer_email", Message: "customer email is required"}
	}
	if !emailPattern.MatchString(req.CustomerEmail) {
		return ValidationError{Field: "customer_email", Message: "invalid email format"}
	}
	if req.CustomerPhone == "" {
		return ValidationError{Field: "customer_phone", Message: "customer phone is required"}
	}
	if req.CustomerAddress == "" {
		return ValidationError{Field: "customer_address", Message: "customer address is required"}
	}

	return nil
}

// TotalAmount computes the order total from the submitted lines. Prices are
// taken from the reconciled cart as submitted, not re-read from the catalog.
func (req *CheckoutRequest) TotalAmount() int64 {
	return CartTotal(req.Cart)
}
