package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadhn26/DelingKopi/internal/logger"
	"github.com/ahmadhn26/DelingKopi/internal/models"
)

type fakeReconciler struct {
	calls int
	lines []models.CartLine
	err   error
}

func (f *fakeReconciler) Reconcile(_ context.Context, _ int64, clientLines []models.CartLine, _ string) ([]models.CartLine, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.lines != nil {
		return f.lines, nil
	}
	return clientLines, nil
}

type checkoutForm struct {
	name, email, phone, address string
	cart                        []models.CartLine
	withProof                   bool
}

func buildCheckoutForm(t *testing.T, form checkoutForm) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"customer_name":    form.name,
		"customer_email":   form.email,
		"customer_phone":   form.phone,
		"customer_address": form.address,
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	if form.cart != nil {
		raw, err := json.Marshal(form.cart)
		require.NoError(t, err)
		require.NoError(t, writer.WriteField("cart_data", string(raw)))
	}

	if form.withProof {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="payment_proof"; filename="bukti.png"`)
		header.Set("Content-Type", "image/png")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestPlaceOrderHandler_BadContactFieldsSkipReconciliation(t *testing.T) {
	store := newMemStore(map[string]int{stockKey(models.ItemTypeMenu, 1): 5})
	service, _, _, _ := newTestService(t, store)
	reconciler := &fakeReconciler{}
	handler := NewHandler(service, reconciler, 1, logger.New("checkout-test"))

	body, contentType := buildCheckoutForm(t, checkoutForm{
		name:    "Siti Rahma",
		email:   "not-an-email",
		phone:   "081234567890",
		address: "Jl. Kenanga No. 5, Jakarta",
		cart: []models.CartLine{
			{ItemID: 1, ItemType: models.ItemTypeMenu, Name: "Kopi Susu", Price: 25000, Quantity: 1},
		},
		withProof: true,
	})

	r := httptest.NewRequest(http.MethodPost, "/checkout", body)
	r.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.PlaceOrder(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// The rejection happens before any cart or stock read.
	assert.Equal(t, 0, reconciler.calls)
	assert.Equal(t, 0, store.orderCount())
}

func TestPlaceOrderHandler_Commit(t *testing.T) {
	store := newMemStore(map[string]int{stockKey(models.ItemTypeMenu, 1): 5})
	service, _, _, _ := newTestService(t, store)
	reconciler := &fakeReconciler{}
	handler := NewHandler(service, reconciler, 1, logger.New("checkout-test"))

	body, contentType := buildCheckoutForm(t, checkoutForm{
		name:    "Siti Rahma",
		email:   "siti@example.com",
		phone:   "081234567890",
		address: "Jl. Kenanga No. 5, Jakarta",
		cart: []models.CartLine{
			{ItemID: 1, ItemType: models.ItemTypeMenu, Name: "Kopi Susu", Price: 25000, Quantity: 2},
		},
		withProof: true,
	})

	r := httptest.NewRequest(http.MethodPost, "/checkout", body)
	r.Header.Set("Content-Type", contentType)
	r.Header.Set("X-User-ID", "7")
	rec := httptest.NewRecorder()

	handler.PlaceOrder(rec, r)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, reconciler.calls)

	var resp models.CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(50000), resp.TotalAmount)
	assert.Equal(t, 3, store.stockOf(models.ItemTypeMenu, 1))
}
