package cart

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ahmadhn26/DelingKopi/internal/logger"
	"github.com/ahmadhn26/DelingKopi/internal/models"
)

// Loader reads a user's server-side cart.
type Loader interface {
	Load(ctx context.Context, userID int64) ([]models.CartLine, error)
}

// Reconciler merges a client-submitted cart snapshot with the server copy
// and validates every line against the stock ledger before checkout touches
// anything. The validation here is advisory; the order engine re-checks each
// line inside its transaction.
type Reconciler struct {
	carts         Loader
	ledger        StockReader
	maxConcurrent int
	logger        *logger.Logger
}

// NewReconciler creates a new cart reconciler
func NewReconciler(carts Loader, ledger StockReader, maxConcurrent int, log *logger.Logger) *Reconciler {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	return &Reconciler{
		carts:         carts,
		ledger:        ledger,
		maxConcurrent: maxConcurrent,
		logger:        log,
	}
}

// Reconcile resolves the authoritative cart for a checkout attempt and
// validates it. A logged-in user's non-empty server cart wins over the
// client snapshot; guests only have the client snapshot. No state is
// mutated.
func (r *Reconciler) Reconcile(ctx context.Context, userID int64, clientLines []models.CartLine, requestID string) ([]models.CartLine, error) {
	lines := clientLines

	if userID > 0 {
		serverLines, err := r.carts.Load(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(serverLines) > 0 {
			if len(clientLines) > 0 && len(serverLines) != len(clientLines) {
				r.logger.Debug("cart_reconciled", "Server cart differs from client snapshot, preferring server copy", requestID, map[string]interface{}{
					"user_id":      userID,
					"server_lines": len(serverLines),
					"client_lines": len(clientLines),
				})
			}
			lines = serverLines
		}
	}

	if err := models.ValidateCartLines(lines); err != nil {
		return nil, err
	}

	if err := r.checkStock(ctx, lines); err != nil {
		return nil, err
	}

	return lines, nil
}

// checkStock fetches current stock for every line concurrently and rejects
// the whole cart on the first shortfall. A deleted item reads as zero stock.
func (r *Reconciler) checkStock(ctx context.Context, lines []models.CartLine) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrent)

	for _, line := range lines {
		line := line
		g.Go(func() error {
			available, err := r.ledger.GetStock(ctx, line.ItemID, line.ItemType)
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
			return nil
		})
	}

	return g.Wait()
}
