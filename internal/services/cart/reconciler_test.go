package cart

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadhn26/DelingKopi/internal/logger"
	"github.com/ahmadhn26/DelingKopi/internal/models"
)

type fakeCartLoader struct {
	carts map[int64][]models.CartLine
	err   error
}

func (f *fakeCartLoader) Load(_ context.Context, userID int64) ([]models.CartLine, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.carts[userID], nil
}

type fakeLedger struct {
	stock map[string]int
	err   error
}

func (f *fakeLedger) GetStock(_ context.Context, itemID int64, itemType models.ItemType) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.stock[ledgerKey(itemType, itemID)], nil
}

func ledgerKey(itemType models.ItemType, itemID int64) string {
	return string(itemType) + "/" + strconv.FormatInt(itemID, 10)
}

func line(id int64, itemType models.ItemType, name string, qty int) models.CartLine {
	return models.CartLine{ItemID: id, ItemType: itemType, Name: name, Price: 10000, Quantity: qty}
}

func TestReconcileGuestUsesClientSnapshot(t *testing.T) {
	loader := &fakeCartLoader{carts: map[int64][]models.CartLine{}}
	ledger := &fakeLedger{stock: map[string]int{ledgerKey(models.ItemTypeMenu, 1): 10}}
	r := NewReconciler(loader, ledger, 4, logger.New("cart-test"))

	client := []models.CartLine{line(1, models.ItemTypeMenu, "Kopi Susu", 2)}
	lines, err := r.Reconcile(context.Background(), 0, client, "req_test")

	require.NoError(t, err)
	assert.Equal(t, client, lines)
}

func TestReconcilePrefersNonEmptyServerCart(t *testing.T) {
	serverCart := []models.CartLine{line(2, models.ItemTypeProduct, "Biji Arabika 250g", 1)}
	loader := &fakeCartLoader{carts: map[int64][]models.CartLine{7: serverCart}}
	ledger := &fakeLedger{stock: map[string]int{
		ledgerKey(models.ItemTypeMenu, 1):    10,
		ledgerKey(models.ItemTypeProduct, 2): 5,
	}}
	r := NewReconciler(loader, ledger, 4, logger.New("cart-test"))

	client := []models.CartLine{line(1, models.ItemTypeMenu, "Kopi Susu", 2)}
	lines, err := r.Reconcile(context.Background(), 7, client, "req_test")

	require.NoError(t, err)
	assert.Equal(t, serverCart, lines)
}

func TestReconcileEmptyServerCartFallsBackToClient(t *testing.T) {
	loader := &fakeCartLoader{carts: map[int64][]models.CartLine{}}
	ledger := &fakeLedger{stock: map[string]int{ledgerKey(models.ItemTypeMenu, 1): 10}}
	r := NewReconciler(loader, ledger, 4, logger.New("cart-test"))

	client := []models.CartLine{line(1, models.ItemTypeMenu, "Kopi Susu", 2)}
	lines, err := r.Reconcile(context.Background(), 7, client, "req_test")

	require.NoError(t, err)
	assert.Equal(t, client, lines)
}

func TestReconcileEmptyEverywhere(t *testing.T) {
	loader := &fakeCartLoader{carts: map[int64][]models.CartLine{}}
	ledger := &fakeLedger{stock: map[string]int{}}
	r := NewReconciler(loader, ledger, 4, logger.New("cart-test"))

	_, err := r.Reconcile(context.Background(), 7, nil, "req_test")
	assert.ErrorIs(t, err, models.ErrEmptyCart)
}

func TestReconcileStockShortfall(t *testing.T) {
	loader := &fakeCartLoader{carts: map[int64][]models.CartLine{}}
	ledger := &fakeLedger{stock: map[string]int{
		ledgerKey(models.ItemTypeMenu, 1):    10,
		ledgerKey(models.ItemTypeProduct, 2): 1,
	}}
	r := NewReconciler(loader, ledger, 4, logger.New("cart-test"))

	client := []models.CartLine{
		line(1, models.ItemTypeMenu, "Kopi Susu", 2),
		line(2, models.ItemTypeProduct, "Biji Arabika 250g", 3),
	}
	_, err := r.Reconcile(context.Background(), 0, client, "req_test")

	var stockErr models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(2), stockErr.ItemID)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)
}

func TestReconcileDeletedItemReadsAsZero(t *testing.T) {
	loader := &fakeCartLoader{carts: map[int64][]models.CartLine{}}
	ledger := &fakeLedger{stock: map[string]int{}}
	r := NewReconciler(loader, ledger, 4, logger.New("cart-test"))

	client := []models.CartLine{line(9, models.ItemTypeMenu, "Es Kopi Gula Aren", 1)}
	_, err := r.Reconcile(context.Background(), 0, client, "req_test")

	var stockErr models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)
}

func TestReconcileLoaderFailure(t *testing.T) {
	loadErr := models.PersistenceError{Op: "cart load", Err: errors.New("connection reset")}
	loader := &fakeCartLoader{err: loadErr}
	r := NewReconciler(loader, &fakeLedger{}, 4, logger.New("cart-test"))

	_, err := r.Reconcile(context.Background(), 7, nil, "req_test")

	var persistenceErr models.PersistenceError
	assert.ErrorAs(t, err, &persistenceErr)
}

func TestReconcileInvalidLineRejected(t *testing.T) {
	loader := &fakeCartLoader{carts: map[int64][]models.CartLine{}}
	r := NewReconciler(loader, &fakeLedger{}, 4, logger.New("cart-test"))

	client := []models.CartLine{line(1, models.ItemTypeMenu, "Kopi Susu", 0)}
	_, err := r.Reconcile(context.Background(), 0, client, "req_test")

	var validationErr models.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
