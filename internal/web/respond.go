// Package web holds the HTTP plumbing shared by the storefront handlers:
// response writing, the error-to-status mapping for the domain error
// taxonomy, request logging middleware and identity header parsing.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ahmadhn26/DelingKopi/internal/logger"
	"github.com/ahmadhn26/DelingKopi/internal/models"
)

// WriteJSON writes a successful JSON response
func WriteJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, statusCode int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

// WriteDomainError maps a domain error onto an HTTP response. Validation and
// stock failures carry their specific message; persistence failures stay
// generic so storage internals never leak.
func WriteDomainError(w http.ResponseWriter, err error, requestID string) {
	var validationErr models.ValidationError
	var stockErr models.InsufficientStockError
	var formatErr models.UnsupportedProofFormatError
	var persistenceErr models.PersistenceError

	switch {
	case errors.As(err, &validationErr):
		WriteError(w, http.StatusBadRequest, validationErr.Error(), requestID)
	case errors.Is(err, models.ErrEmptyCart):
		WriteError(w, http.StatusBadRequest, err.Error(), requestID)
	case errors.As(err, &stockErr):
		WriteError(w, http.StatusConflict, stockErr.Error(), requestID)
	case errors.Is(err, models.ErrPaymentProofMissing):
		WriteError(w, http.StatusBadRequest, err.Error(), requestID)
	case errors.As(err, &formatErr):
		WriteError(w, http.StatusBadRequest, formatErr.Error(), requestID)
	case errors.Is(err, models.ErrAccessDenied):
		WriteError(w, http.StatusForbidden, "Access denied", requestID)
	case errors.Is(err, models.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "Order not found", requestID)
	case errors.As(err, &persistenceErr):
		WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
	default:
		WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
	}
}

// UserID extracts the authenticated user id from the X-User-ID header set by
// the upstream auth layer. Zero means guest.
func UserID(r *http.Request) int64 {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// IsAdmin reports whether the upstream auth layer marked the request as an
// administrator.
func IsAdmin(r *http.Request) bool {
	return r.Header.Get("X-User-Role") == "admin"
}

// WithLogging adds request logging middleware
func WithLogging(log *logger.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := logger.GenerateRequestID()

		// Log request
		log.Debug("request_started",
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.Header.Get("User-Agent"),
			})

		// Create a response writer that captures status code
		rw := &responseWriter{ResponseWriter: w, statusCode: 200}

		// Call the handler
		next(rw, r)

		// Log response
		duration := time.Since(start)
		log.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": duration.Milliseconds(),
			})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
