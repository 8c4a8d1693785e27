package cart

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/ahmadhn26/DelingKopi/internal/database"
	"github.com/ahmadhn26/DelingKopi/internal/logger"
	"github.com/ahmadhn26/DelingKopi/internal/models"
)

// StockReader reads the available quantity for a catalog item.
type StockReader interface {
	GetStock(ctx context.Context, itemID int64, itemType models.ItemType) (int, error)
}

// dbConn is the slice of the connection pool the cart store uses.
type dbConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) error
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store is the durable per-user cart. Guests have no server-side entry; a
// logged-in user's server copy is the authoritative one.
type Store struct {
	db     dbConn
	ledger StockReader
	logger *logger.Logger
}

// NewStore creates a new cart store
func NewStore(db *database.DB, ledger StockReader, log *logger.Logger) *Store {
	return &Store{
		db:     db,
		ledger: ledger,
		logger: log,
	}
}

// Load returns the user's current cart lines.
func (s *Store) Load(ctx context.Context, userID int64) ([]models.CartLine, error) {
	rows, err := s.db.Query(ctx, database.LoadCartSQL, userID)
	if err != nil {
		return nil, models.PersistenceError{Op: "cart load", Err: err}
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var line models.CartLine
		if err := rows.Scan(&line.ItemID, &line.ItemType, &line.Name, &line.Price, &line.Quantity); err != nil {
			return nil, models.PersistenceError{Op: "cart scan", Err: err}
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, models.PersistenceError{Op: "cart load", Err: err}
	}

	return lines, nil
}

// Replace atomically replaces the user's cart with the submitted lines:
// delete-all then insert-all in one transaction, so a crash mid-write never
// leaves a half-updated cart. Each line gets an advisory stock check; the
// authoritative check happens again at checkout commit time.
func (s *Store) Replace(ctx context.Context, userID int64, lines []models.CartLine) error {
	for i, line := range lines {
		if err := line.Validate(i); err != nil {
			return err
		}
	}

	for _, line := range lines {
		available, err := s.ledger.GetStock(ctx, line.ItemID, line.ItemType)
		if err != nil {
			return err
		}
		if available < line.Quantity {
			return models.InsufficientStockError{
				ItemID:    line.ItemID,
				ItemType:  line.ItemType,
				ItemName:  line.Name,
				Requested: line.Quantity,
				Available: available,
			}
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return models.PersistenceError{Op: "cart replace", Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, database.DeleteCartSQL, userID); err != nil {
		return models.PersistenceError{Op: "cart replace", Err: err}
	}

	for _, line := range models.SortCartLines(lines) {
		_, err := tx.Exec(ctx, database.InsertCartLineSQL,
			userID, line.ItemID, line.ItemType, line.Name, line.Price, line.Quantity)
		if err != nil {
			return models.PersistenceError{Op: "cart replace", Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.PersistenceError{Op: "cart replace", Err: err}
	}

	return nil
}

// Clear removes every cart line for the user. Clearing an already empty cart
// is a no-op.
func (s *Store) Clear(ctx context.Context, userID int64) error {
	if err := s.db.Exec(ctx, database.DeleteCartSQL, userID); err != nil {
		return models.PersistenceError{Op: "cart clear", Err: err}
	}
	return nil
}
