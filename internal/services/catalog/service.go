package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ahmadhn26/DelingKopi/internal/database"
	"github.com/ahmadhn26/DelingKopi/internal/logger"
	"github.com/ahmadhn26/DelingKopi/internal/models"
)

// Service is the stock ledger and catalog read/write surface. Stock is read
// by the reconciler and the admin editor, and decremented only from inside a
// checkout transaction.
type Service struct {
	db     *database.DB
	logger *logger.Logger
}

// NewService creates a new catalog service
func NewService(db *database.DB, log *logger.Logger) *Service {
	return &Service{
		db:     db,
		logger: log,
	}
}

// stockSQL resolves the per-type ledger queries. The item type has already
// passed the whitelist, so the default arm only guards against new types
// added without a query pair.
func stockSQL(itemType models.ItemType) (getSQL, decrementSQL string, err error) {
	switch itemType {
	case models.ItemTypeMenu:
		return database.GetMenuStockSQL, database.DecrementMenuStockSQL, nil
	case models.ItemTypeProduct:
		return database.GetProductStockSQL, database.DecrementProductStockSQL, nil
	default:
		return "", "", fmt.Errorf("no stock queries for item type %q", itemType)
	}
}

// rowQuerier is satisfied by both the pool wrapper and pgx.Tx, so stock reads
// work inside and outside a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// GetStock returns the available quantity for an item. A deleted item reads
// as zero stock, which rejects any pending cart line for it.
func (s *Service) GetStock(ctx context.Context, itemID int64, itemType models.ItemType) (int, error) {
	return getStock(ctx, s.db, itemID, itemType)
}

func getStock(ctx context.Context, q rowQuerier, itemID int64, itemType models.ItemType) (int, error) {
	getSQL, _, err := stockSQL(itemType)
	if err != nil {
		return 0, err
	}

	var stock int
	err = q.QueryRow(ctx, getSQL, itemID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, models.PersistenceError{Op: "stock read", Err: err}
	}

	return stock, nil
}

// DecrementStock atomically decrements stock for one cart line inside the
// caller's transaction. The conditional UPDATE serializes the check against
// concurrent decrements on the same row; zero rows affected means the
// precondition failed and the whole transaction must abort.
func (s *Service) DecrementStock(ctx context.Context, tx pgx.Tx, line models.CartLine) error {
	_, decrementSQL, err := stockSQL(line.ItemType)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, decrementSQL, line.Quantity, line.ItemID)
	if err != nil {
		return models.PersistenceError{Op: "stock decrement", Err: err}
	}

	if tag.RowsAffected() == 0 {
		available, readErr := getStock(ctx, tx, line.ItemID, line.ItemType)
		if readErr != nil {
			return readErr
		}
		return models.InsufficientStockError{
			ItemID:    line.ItemID,
			ItemType:  line.ItemType,
			ItemName:  line.Name,
			Requested: line.Quantity,
			Available: available,
		}
	}

	return nil
}

// ListItems returns all catalog items of one type, stock included.
func (s *Service) ListItems(ctx context.Context, itemType models.ItemType) ([]models.CatalogItem, error) {
	var listSQL string
	switch itemType {
	case models.ItemTypeMenu:
		listSQL = database.ListMenuItemsSQL
	case models.ItemTypeProduct:
		listSQL = database.ListProductsSQL
	default:
		return nil, fmt.Errorf("no listing for item type %q", itemType)
	}

	rows, err := s.db.Query(ctx, listSQL)
	if err != nil {
		return nil, models.PersistenceError{Op: "catalog list", Err: err}
	}
	defer rows.Close()

	var items []models.CatalogItem
	for rows.Next() {
		item := models.CatalogItem{Type: itemType}
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Stock, &item.Description); err != nil {
			return nil, models.PersistenceError{Op: "catalog scan", Err: err}
		}
		item.Ships = item.Shippable()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, models.PersistenceError{Op: "catalog list", Err: err}
	}

	return items, nil
}

// UpsertItem creates or updates a catalog item on behalf of the admin
// editor. A zero ID inserts; a positive ID updates in place.
func (s *Service) UpsertItem(ctx context.Context, item *models.CatalogItem) error {
	if item.Name == "" {
		return models.ValidationError{Field: "name", Message: "item name is required"}
	}
	if item.Price < 0 {
		return models.ValidationError{Field: "price", Message: "price cannot be negative"}
	}
	if item.Stock < 0 {
		return models.ValidationError{Field: "stock", Message: "stock cannot be negative"}
	}

	var insertSQL, updateSQL string
	switch item.Type {
	case models.ItemTypeMenu:
		insertSQL, updateSQL = database.InsertMenuItemSQL, database.UpdateMenuItemSQL
	case models.ItemTypeProduct:
		insertSQL, updateSQL = database.InsertProductSQL, database.UpdateProductSQL
	default:
		return fmt.Errorf("no upsert for item type %q", item.Type)
	}

	if item.ID == 0 {
		err := s.db.QueryRow(ctx, insertSQL, item.Name, item.Price, item.Stock, item.Description).Scan(&item.ID)
		if err != nil {
			return models.PersistenceError{Op: "catalog insert", Err: err}
		}
		return nil
	}

	if err := s.db.Exec(ctx, updateSQL, item.Name, item.Price, item.Stock, item.Description, item.ID); err != nil {
		return models.PersistenceError{Op: "catalog update", Err: err}
	}
	return nil
}

// HealthCheck checks the database connection
func (s *Service) HealthCheck(ctx context.Context) bool {
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health_check_failed", "Database ping failed", "", err, nil)
		return false
	}
	return true
}
