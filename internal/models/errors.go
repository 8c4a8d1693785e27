package models

import (
	"errors"
	"fmt"
)

var (
	// ErrPaymentProofMissing means the checkout carried no readable proof upload.
	ErrPaymentProofMissing = errors.New("payment proof is required")

	// ErrAccessDenied means the requester does not own the order. It is
	// returned whether or not the order id exists so lookups leak nothing.
	ErrAccessDenied = errors.New("access denied")

	// ErrOrderNotFound means the order id does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrEmptyCart means a checkout or reconciliation was attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")
)

// ValidationError reports a user-correctable problem with a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InsufficientStockError rejects a whole cart because of one line. Available
// is the quantity on hand at the moment of the check; zero when the item no
// longer exists.
type InsufficientStockError struct {
	ItemID    int64
	ItemType  ItemType
	ItemName  string
	Requested int
	Available int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ItemName, e.Requested, e.Available)
}

// UnsupportedProofFormatError rejects a payment proof upload whose content
// type is outside the allowed image set.
type UnsupportedProofFormatError struct {
	ContentType string
}

func (e UnsupportedProofFormatError) Error() string {
	return fmt.Sprintf("unsupported payment proof format %q: use JPEG, PNG or WebP", e.ContentType)
}

// PersistenceError wraps a storage-layer failure. The transaction has been
// rolled back; callers surface it as a generic retryable error.
type PersistenceError struct {
	Op  string
	Err error
}

func (e PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e PersistenceError) Unwrap() error {
	return e.Err
}
