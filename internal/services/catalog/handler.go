package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ahmadhn26/DelingKopi/internal/logger"
	"github.com/ahmadhn26/DelingKopi/internal/models"
	"github.com/ahmadhn26/DelingKopi/internal/web"
)

// Handler handles HTTP requests for the catalog and stock ledger reads
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new catalog handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// ListCatalog handles GET /catalog requests: the storefront listing of menu
// items and products with live stock.
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		web.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	menu, err := h.service.ListItems(r.Context(), models.ItemTypeMenu)
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to list menu items", requestID, err, nil)
		web.WriteDomainError(w, err, requestID)
		return
	}

	products, err := h.service.ListItems(r.Context(), models.ItemTypeProduct)
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to list products", requestID, err, nil)
		web.WriteDomainError(w, err, requestID)
		return
	}

	if menu == nil {
		menu = []models.CatalogItem{}
	}
	if products == nil {
		products = []models.CatalogItem{}
	}

	web.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"menu":     menu,
		"products": products,
	})
}

// GetStock handles GET /stock requests: the ledger read used by the admin
// catalog editor and client-side cart checks.
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		web.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	itemID, err := strconv.ParseInt(r.URL.Query().Get("item_id"), 10, 64)
	if err != nil || itemID <= 0 {
		web.WriteError(w, http.StatusBadRequest, "item_id is required", requestID)
		return
	}

	itemType, err := models.ValidateItemType(r.URL.Query().Get("item_type"))
	if err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}

	stock, err := h.service.GetStock(r.Context(), itemID, itemType)
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to read stock", requestID, err, map[string]interface{}{
			"item_id":   itemID,
			"item_type": string(itemType),
		})
		web.WriteDomainError(w, err, requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"item_id":   itemID,
		"item_type": itemType,
		"stock":     stock,
	})
}

// upsertItemRequest is the body of an admin catalog upsert.
type upsertItemRequest struct {
	ID          int64  `json:"id,omitempty"`
	ItemType    string `json:"item_type"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Description string `json:"description,omitempty"`
}

// UpsertItem handles PUT /admin/catalog requests from the admin editor.
func (h *Handler) UpsertItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodPut {
		web.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}
	if !web.IsAdmin(r) {
		web.WriteError(w, http.StatusForbidden, "Access denied", requestID)
		return
	}

	var req upsertItemRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	itemType, err := models.ValidateItemType(req.ItemType)
	if err != nil {
		web.WriteDomainError(w, err, requestID)
		return
	}

	item := models.CatalogItem{
		ID:          req.ID,
		Type:        itemType,
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
	}
	if err := h.service.UpsertItem(r.Context(), &item); err != nil {
		h.logger.Error("catalog_upsert_failed", "Failed to upsert catalog item", requestID, err, map[string]interface{}{
			"item_type": string(itemType),
			"item_id":   req.ID,
		})
		web.WriteDomainError(w, err, requestID)
		return
	}

	h.logger.Info("catalog_upserted", "Catalog item saved", requestID, map[string]interface{}{
		"item_id":   item.ID,
		"item_type": string(item.Type),
		"stock":     item.Stock,
	})

	item.Ships = item.Shippable()
	web.WriteJSON(w, http.StatusOK, item)
}
