package checkout

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ahmadhn26/DelingKopi/internal/logger"
	"github.com/ahmadhn26/DelingKopi/internal/models"
	"github.com/ahmadhn26/DelingKopi/internal/web"
)

// Reconciler resolves and validates the cart used for a checkout attempt.
type Reconciler interface {
	Reconcile(ctx context.Context, userID int64, clientLines []models.CartLine, requestID string) ([]models.CartLine, error)
}

// Handler handles HTTP requests for checkout
type Handler struct {
	service    *Service
	reconciler Reconciler
	maxBytes   int64
	logger     *logger.Logger
}

// NewHandler creates a new checkout handler
func NewHandler(service *Service, reconciler Reconciler, maxUploadMB int, log *logger.Logger) *Handler {
	if maxUploadMB <= 0 {
		maxUploadMB = 8
	}
	return &Handler{
		service:    service,
		reconciler: reconciler,
		maxBytes:   int64(maxUploadMB) << 20,
		logger:     log,
	}
}

// PlaceOrder handles POST /checkout. The submission is a multipart form:
// contact fields, the cart snapshot as JSON in cart_data, and the payment
// proof image.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodPost {
		web.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		h.logger.Error("validation_failed", "Failed to parse multipart form", requestID, err, nil)
		web.WriteError(w, http.StatusBadRequest, "Invalid form submission", requestID)
		return
	}

	var clientLines []models.CartLine
	if raw := r.FormValue("cart_data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &clientLines); err != nil {
			h.logger.Error("validation_failed", "Failed to parse cart data", requestID, err, nil)
			web.WriteError(w, http.StatusBadRequest, "Invalid cart data", requestID)
			return
		}
	}

	userID := web.UserID(r)

	req := &models.CheckoutRequest{
		UserID:          userID,
		CustomerName:    r.FormValue("customer_name"),
		CustomerEmail:   r.FormValue("customer_email"),
		CustomerPhone:   r.FormValue("customer_phone"),
		CustomerAddress: r.FormValue("customer_address"),
	}

	// Contact fields are checked before reconciliation so a bad submission
	// never touches the stock ledger.
	if err := req.ValidateContact(); err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}

	lines, err := h.reconciler.Reconcile(r.Context(), userID, clientLines, requestID)
	if err != nil {
		h.logger.Debug("reconcile_failed", "Cart reconciliation rejected checkout", requestID, map[string]interface{}{
			"user_id": userID,
		})
		web.WriteDomainError(w, err, requestID)
		return
	}
	req.Cart = lines

	proof := ProofUpload{}
	file, header, err := r.FormFile("payment_proof")
	if err == nil {
		defer file.Close()
		proof = ProofUpload{
			Content:     file,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	response, err := h.service.PlaceOrder(r.Context(), req, proof, requestID)
	if err != nil {
		h.logger.Error("checkout_failed", "Checkout attempt failed", requestID, err, map[string]interface{}{
			"user_id": userID,
		})
		web.WriteDomainError(w, err, requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, response)
}
