package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadhn26/DelingKopi/internal/database"
	"github.com/ahmadhn26/DelingKopi/internal/logger"
	"github.com/ahmadhn26/DelingKopi/internal/models"
)

// fakeCartDB backs the cart store with an in-memory map and hands out
// transactions that buffer their writes until Commit, like the real pool.
type fakeCartDB struct {
	carts        map[int64][]models.CartLine
	begins       int
	failOnInsert int // 1-based index of the insert that fails; 0 = never
}

func newFakeCartDB() *fakeCartDB {
	return &fakeCartDB{carts: make(map[int64][]models.CartLine)}
}

func (f *fakeCartDB) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	if sql != database.LoadCartSQL {
		return nil, errors.New("unexpected query")
	}
	userID := args[0].(int64)
	return &fakeCartRows{lines: models.SortCartLines(f.carts[userID])}, nil
}

func (f *fakeCartDB) Exec(_ context.Context, sql string, args ...interface{}) error {
	if sql != database.DeleteCartSQL {
		return errors.New("unexpected exec")
	}
	delete(f.carts, args[0].(int64))
	return nil
}

func (f *fakeCartDB) Begin(_ context.Context) (pgx.Tx, error) {
	f.begins++
	return &fakeCartTx{db: f}, nil
}

// fakeCartTx applies the buffered delete and inserts only on Commit; a
// rollback discards them.
type fakeCartTx struct {
	db        *fakeCartDB
	userID    int64
	wiped     bool
	inserts   []models.CartLine
	execs     int
	committed bool
}

func (t *fakeCartTx) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	switch sql {
	case database.DeleteCartSQL:
		t.userID = args[0].(int64)
		t.wiped = true
	case database.InsertCartLineSQL:
		t.execs++
		if t.db.failOnInsert > 0 && t.execs == t.db.failOnInsert {
			return pgconn.CommandTag{}, errors.New("insert failed")
		}
		t.inserts = append(t.inserts, models.CartLine{
			ItemID:   args[1].(int64),
			ItemType: args[2].(models.ItemType),
			Name:     args[3].(string),
			Price:    args[4].(int64),
			Quantity: args[5].(int),
		})
	default:
		return pgconn.CommandTag{}, errors.New("unexpected exec")
	}
	return pgconn.CommandTag{}, nil
}

func (t *fakeCartTx) Commit(_ context.Context) error {
	if t.wiped {
		t.db.carts[t.userID] = append([]models.CartLine(nil), t.inserts...)
	}
	t.committed = true
	return nil
}

func (t *fakeCartTx) Rollback(_ context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	return nil
}

func (t *fakeCartTx) Begin(context.Context) (pgx.Tx, error) { panic("not used") }
func (t *fakeCartTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	panic("not used")
}
func (t *fakeCartTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { panic("not used") }
func (t *fakeCartTx) LargeObjects() pgx.LargeObjects                         { panic("not used") }
func (t *fakeCartTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	panic("not used")
}
func (t *fakeCartTx) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	panic("not used")
}
func (t *fakeCartTx) QueryRow(context.Context, string, ...interface{}) pgx.Row { panic("not used") }
func (t *fakeCartTx) Conn() *pgx.Conn                                          { panic("not used") }

type fakeCartRows struct {
	lines []models.CartLine
	idx   int
}

func (r *fakeCartRows) Next() bool {
	if r.idx >= len(r.lines) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeCartRows) Scan(dest ...interface{}) error {
	line := r.lines[r.idx-1]
	*dest[0].(*int64) = line.ItemID
	*dest[1].(*models.ItemType) = line.ItemType
	*dest[2].(*string) = line.Name
	*dest[3].(*int64) = line.Price
	*dest[4].(*int) = line.Quantity
	return nil
}

func (r *fakeCartRows) Close()                                       {}
func (r *fakeCartRows) Err() error                                   { return nil }
func (r *fakeCartRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeCartRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeCartRows) Values() ([]interface{}, error)               { return nil, nil }
func (r *fakeCartRows) RawValues() [][]byte                          { return nil }
func (r *fakeCartRows) Conn() *pgx.Conn                              { return nil }

func newTestStore(db *fakeCartDB, ledger StockReader) *Store {
	return &Store{db: db, ledger: ledger, logger: logger.New("cart-test")}
}

func TestReplaceThenLoadExactMatch(t *testing.T) {
	db := newFakeCartDB()
	db.carts[7] = []models.CartLine{line(9, models.ItemTypeMenu, "Es Kopi Gula Aren", 1)}
	ledger := &fakeLedger{stock: map[string]int{
		ledgerKey(models.ItemTypeMenu, 1):    10,
		ledgerKey(models.ItemTypeProduct, 2): 5,
	}}
	store := newTestStore(db, ledger)

	newLines := []models.CartLine{
		line(2, models.ItemTypeProduct, "Biji Arabika 250g", 1),
		line(1, models.ItemTypeMenu, "Kopi Susu", 2),
	}
	require.NoError(t, store.Replace(context.Background(), 7, newLines))

	got, err := store.Load(context.Background(), 7)
	require.NoError(t, err)

	// The cart is exactly the replacement, sorted, with no residual lines
	// from the previous contents.
	assert.Equal(t, models.SortCartLines(newLines), got)
}

func TestReplaceFailureLeavesCartUntouched(t *testing.T) {
	db := newFakeCartDB()
	before := []models.CartLine{line(9, models.ItemTypeMenu, "Es Kopi Gula Aren", 1)}
	db.carts[7] = before
	db.failOnInsert = 2
	ledger := &fakeLedger{stock: map[string]int{
		ledgerKey(models.ItemTypeMenu, 1):    10,
		ledgerKey(models.ItemTypeProduct, 2): 5,
	}}
	store := newTestStore(db, ledger)

	err := store.Replace(context.Background(), 7, []models.CartLine{
		line(1, models.ItemTypeMenu, "Kopi Susu", 2),
		line(2, models.ItemTypeProduct, "Biji Arabika 250g", 1),
	})

	var persistenceErr models.PersistenceError
	require.ErrorAs(t, err, &persistenceErr)

	got, loadErr := store.Load(context.Background(), 7)
	require.NoError(t, loadErr)
	assert.Equal(t, before, got, "a failed replace must not leave a half-written cart")
}

func TestReplaceStockShortfallStartsNoTransaction(t *testing.T) {
	db := newFakeCartDB()
	ledger := &fakeLedger{stock: map[string]int{ledgerKey(models.ItemTypeMenu, 1): 1}}
	store := newTestStore(db, ledger)

	err := store.Replace(context.Background(), 7, []models.CartLine{
		line(1, models.ItemTypeMenu, "Kopi Susu", 2),
	})

	var stockErr models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, db.begins)
}

func TestClearIsIdempotent(t *testing.T) {
	db := newFakeCartDB()
	db.carts[7] = []models.CartLine{line(1, models.ItemTypeMenu, "Kopi Susu", 2)}
	store := newTestStore(db, &fakeLedger{})

	require.NoError(t, store.Clear(context.Background(), 7))
	require.NoError(t, store.Clear(context.Background(), 7))

	got, err := store.Load(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, got)
}
