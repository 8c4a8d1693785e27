package cart

import (
	"encoding/json"
	"net/http"

	"github.com/ahmadhn26/DelingKopi/internal/logger"
	"github.com/ahmadhn26/DelingKopi/internal/models"
	"github.com/ahmadhn26/DelingKopi/internal/web"
)

// Handler handles HTTP requests for the cart store
type Handler struct {
	store  *Store
	logger *logger.Logger
}

// NewHandler creates a new cart handler
func NewHandler(store *Store, log *logger.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: log,
	}
}

// saveCartRequest is the body of a cart save: the full replacement snapshot.
type saveCartRequest struct {
	Cart []models.CartLine `json:"cart"`
}

// ServeCart routes /cart requests by method. Guests carry their cart
// client-side only, so every server-side cart operation requires a user id.
func (h *Handler) ServeCart(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	userID := web.UserID(r)
	if userID == 0 {
		web.WriteError(w, http.StatusUnauthorized, "Not logged in", requestID)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.loadCart(w, r, userID, requestID)
	case http.MethodPost:
		h.saveCart(w, r, userID, requestID)
	case http.MethodDelete:
		h.clearCart(w, r, userID, requestID)
	default:
		web.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
	}
}

func (h *Handler) loadCart(w http.ResponseWriter, r *http.Request, userID int64, requestID string) {
	lines, err := h.store.Load(r.Context(), userID)
	if err != nil {
		h.logger.Error("cart_load_failed", "Failed to load cart", requestID, err, map[string]interface{}{
			"user_id": userID,
		})
		web.WriteDomainError(w, err, requestID)
		return
	}

	if lines == nil {
		lines = []models.CartLine{}
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"cart":    lines,
	})
}

func (h *Handler) saveCart(w http.ResponseWriter, r *http.Request, userID int64, requestID string) {
	var req saveCartRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		h.logger.Error("validation_failed", "Failed to parse cart body", requestID, err, nil)
		web.WriteError(w, http.StatusBadRequest, "Invalid cart data", requestID)
		return
	}

	if err := h.store.Replace(r.Context(), userID, req.Cart); err != nil {
		h.logger.Error("cart_save_failed", "Failed to replace cart", requestID, err, map[string]interface{}{
			"user_id": userID,
			"lines":   len(req.Cart),
		})
		web.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Debug("cart_saved", "Cart replaced", requestID, map[string]interface{}{
		"user_id": userID,
		"lines":   len(req.Cart),
	})

	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request, userID int64, requestID string) {
	if err := h.store.Clear(r.Context(), userID); err != nil {
		h.logger.Error("cart_clear_failed", "Failed to clear cart", requestID, err, map[string]interface{}{
			"user_id": userID,
		})
		web.WriteDomainError(w, err, requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
