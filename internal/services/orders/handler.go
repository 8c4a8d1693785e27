package orders

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/ahmadhn26/DelingKopi/internal/logger"
	"github.com/ahmadhn26/DelingKopi/internal/models"
	"github.com/ahmadhn26/DelingKopi/internal/web"
)

// Handler handles HTTP requests for the order query service
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new orders handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// ListOrders handles GET /orders requests: the requesting user's own order
// history.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		web.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	userID := web.UserID(r)
	if userID == 0 {
		web.WriteError(w, http.StatusUnauthorized, "Not logged in", requestID)
		return
	}

	summaries, err := h.service.ListOrders(r.Context(), userID)
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to list orders", requestID, err, map[string]interface{}{
			"user_id": userID,
		})
		web.WriteDomainError(w, err, requestID)
		return
	}

	if summaries == nil {
		summaries = []models.OrderSummary{}
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"orders": summaries})
}

// GetOrderDetail handles GET /orders/{id}/items requests. Ownership is
// verified before any line data is returned.
func (h *Handler) GetOrderDetail(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		web.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	orderID := extractOrderID(r.URL.Path, "/orders/", "/items")
	if orderID == 0 {
		web.WriteError(w, http.StatusBadRequest, "Order ID required", requestID)
		return
	}

	userID := web.UserID(r)
	if userID == 0 && !web.IsAdmin(r) {
		web.WriteError(w, http.StatusUnauthorized, "Not logged in", requestID)
		return
	}

	order, err := h.service.GetOrderDetail(r.Context(), orderID, userID, web.IsAdmin(r))
	if err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, order)
}

// ListAllOrders handles GET /admin/orders requests.
func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		web.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}
	if !web.IsAdmin(r) {
		web.WriteError(w, http.StatusForbidden, "Access denied", requestID)
		return
	}

	summaries, err := h.service.ListAllOrders(r.Context())
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to list all orders", requestID, err, nil)
		web.WriteDomainError(w, err, requestID)
		return
	}

	if summaries == nil {
		summaries = []models.OrderSummary{}
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"orders": summaries})
}

// setStatusRequest is the body of an admin status change.
type setStatusRequest struct {
	Status string `json:"status"`
}

// ServeAdminOrder routes /admin/orders/{id} requests: POST .../status sets
// the order status, DELETE removes the order outright.
func (h *Handler) ServeAdminOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if !web.IsAdmin(r) {
		web.WriteError(w, http.StatusForbidden, "Access denied", requestID)
		return
	}

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/status"):
		h.setStatus(w, r, requestID)
	case r.Method == http.MethodDelete:
		h.deleteOrder(w, r, requestID)
	default:
		web.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
	}
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, requestID string) {
	orderID := extractOrderID(r.URL.Path, "/admin/orders/", "/status")
	if orderID == 0 {
		web.WriteError(w, http.StatusBadRequest, "Order ID required", requestID)
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	status, err := models.ValidateOrderStatus(req.Status)
	if err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}

	if err := h.service.SetStatus(r.Context(), orderID, status, "admin", requestID); err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request, requestID string) {
	orderID := extractOrderID(r.URL.Path, "/admin/orders/", "")
	if orderID == 0 {
		web.WriteError(w, http.StatusBadRequest, "Order ID required", requestID)
		return
	}

	if err := h.service.DeleteOrder(r.Context(), orderID, requestID); err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// extractOrderID parses the numeric order id between prefix and suffix.
func extractOrderID(path, prefix, suffix string) int64 {
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return 0
	}

	raw := strings.TrimPrefix(path, prefix)
	raw = strings.TrimSuffix(raw, suffix)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
