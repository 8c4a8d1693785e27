package checkout

import (
	"context"

	"github.com/ahmadhn26/DelingKopi/internal/database"
	"github.com/ahmadhn26/DelingKopi/internal/models"
	"github.com/ahmadhn26/DelingKopi/internal/services/catalog"
)

// Repository runs the checkout commit against PostgreSQL.
type Repository struct {
	db     *database.DB
	ledger *catalog.Service
}

// NewRepository creates a new checkout repository
func NewRepository(db *database.DB, ledger *catalog.Service) *Repository {
	return &Repository{
		db:     db,
		ledger: ledger,
	}
}

// CreateOrder commits a validated checkout in one transaction: the order
// row, every line item and every stock decrement, or nothing. Lines are
// walked in (type, id) order so concurrent checkouts over overlapping items
// always lock stock rows in the same sequence and cannot deadlock. The
// commit is the only point at which the order becomes visible.
func (r *Repository) CreateOrder(ctx context.Context, req *models.CheckoutRequest, proofPath string) (*models.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, models.PersistenceError{Op: "checkout begin", Err: err}
	}
	defer tx.Rollback(ctx)

	// Bound the wait on contended stock rows; a timeout aborts the whole
	// transaction and surfaces as a persistence failure.
	if _, err := tx.Exec(ctx, database.SetLockTimeoutSQL); err != nil {
		return nil, models.PersistenceError{Op: "checkout lock timeout", Err: err}
	}

	order := &models.Order{
		UserID:           req.UserID,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		CustomerAddress:  req.CustomerAddress,
		TotalAmount:      req.TotalAmount(),
		PaymentProofPath: proofPath,
		Status:           models.StatusProcessing,
	}

	err = tx.QueryRow(ctx, database.InsertOrderSQL,
		order.UserID, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.CustomerAddress, order.TotalAmount, order.PaymentProofPath, order.Status,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, models.PersistenceError{Op: "order insert", Err: err}
	}

	for _, line := range models.SortCartLines(req.Cart) {
		if err := r.ledger.DecrementStock(ctx, tx, line); err != nil {
			return nil, err
		}

		orderLine := models.OrderLine{
			OrderID:  order.ID,
			ItemName: line.Name,
			ItemType: line.ItemType,
			Quantity: line.Quantity,
			Price:    line.Price,
		}
		err = tx.QueryRow(ctx, database.InsertOrderLineSQL,
			orderLine.OrderID, orderLine.ItemName, orderLine.ItemType,
			orderLine.Quantity, orderLine.Price,
		).Scan(&orderLine.ID)
		if err != nil {
			return nil, models.PersistenceError{Op: "order line insert", Err: err}
		}

		order.Lines = append(order.Lines, orderLine)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, models.PersistenceError{Op: "checkout commit", Err: err}
	}

	return order, nil
}
