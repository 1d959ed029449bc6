package handler

import (
	"errors"
	"net/http"

	"github.com/camvault/dealer-ledger/internal/delivery/http/request"
	"github.com/camvault/dealer-ledger/internal/delivery/http/response"
	"github.com/camvault/dealer-ledger/internal/ingest"
	"github.com/camvault/dealer-ledger/internal/pkg/logger"
	"github.com/camvault/dealer-ledger/internal/usecase/catalog"
)

// uploadField is the multipart field carrying the bulk upload file
const uploadField = "file"

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service        *catalog.Service
	maxUploadBytes int64
	logger         *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *catalog.Service, maxUploadBytes int64, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         log,
	}
}

// Create handles POST /api/v1/products
// @Summary Create a product
// @Description Create a catalog product. Purchase and sale prices are derived from the base price and percentages.
// @Tags Products
// @Accept json
// @Produce json
// @Param X-Actor-ID header string false "Acting user" default(admin)
// @Param product body catalog.ProductInput true "Product details"
// @Success 201 {object} map[string]interface{} "Product created"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Model number already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input catalog.ProductInput
	if err := request.DecodeJSON(r, &input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.service.Create(r.Context(), input, request.Actor(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Created(w, product)
}

// GetByID handles GET /api/v1/products/{id}
// @Summary Get a product by ID
// @Tags Products
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 200 {object} map[string]interface{} "Product details"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, product)
}

// List handles GET /api/v1/products
// @Summary List products
// @Description Paginated product list. Only active products unless active=false.
// @Tags Products
// @Produce json
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Param active query bool false "Only active products" default(true)
// @Success 200 {object} map[string]interface{} "Paginated list of products"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.GetPaginationParams(r)
	activeOnly := request.GetBoolQuery(r, "active", true)

	products, total, err := h.service.List(r.Context(), activeOnly, limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Paginated(w, products, total, limit, offset)
}

// Update handles PUT /api/v1/products/{id}
// @Summary Edit a product
// @Description Partial update. A change of derived prices appends a manual_edit price history entry.
// @Tags Products
// @Accept json
// @Produce json
// @Param X-Actor-ID header string false "Acting user" default(admin)
// @Param id path string true "Product ID (UUID)"
// @Param product body catalog.UpdateProductInput true "Fields to change"
// @Success 200 {object} map[string]interface{} "Product updated"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 409 {object} map[string]string "Model number already exists"
// @Router /products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var input catalog.UpdateProductInput
	if err := request.DecodeJSON(r, &input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.service.Update(r.Context(), id, input, request.Actor(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, product)
}

// Delete handles DELETE /api/v1/products/{id}
// @Summary Deactivate a product
// @Description Soft delete; the product and its price history are kept.
// @Tags Products
// @Param X-Actor-ID header string false "Acting user" default(admin)
// @Param id path string true "Product ID (UUID)"
// @Success 204 "Product deactivated"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.service.Deactivate(r.Context(), id, request.Actor(r)); err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.NoContent(w)
}

// PriceHistory handles GET /api/v1/products/{id}/price-history
// @Summary Product price history
// @Description Price changes of a product, newest first
// @Tags Products
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated price history"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id}/price-history [get]
func (h *ProductHandler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	limit, offset := request.GetPaginationParams(r)

	entries, total, err := h.service.PriceHistory(r.Context(), id, limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Paginated(w, entries, total, limit, offset)
}

// BulkUpload handles POST /api/v1/products/bulk-upload
// @Summary Bulk upload products
// @Description Upload a .csv or .xlsx sheet. Rows are matched on model number; bad rows are reported, never fatal.
// @Tags Products
// @Accept multipart/form-data
// @Produce json
// @Param X-Actor-ID header string false "Acting user" default(admin)
// @Param file formData file true "Product sheet (.csv or .xlsx)"
// @Success 200 {object} map[string]interface{} "Bulk upload report"
// @Failure 400 {object} map[string]string "Missing or unreadable file"
// @Failure 409 {object} map[string]string "Another upload is running"
// @Failure 413 {object} map[string]string "File too large"
// @Router /products/bulk-upload [post]
func (h *ProductHandler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadBytes {
		response.Error(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	rows, err := ingest.Parse(header.Filename, file, ingest.DefaultMapping)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"filename": header.Filename,
		}).Warnf("Rejected bulk upload: %v", err)
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.BulkUpload(r.Context(), ingest.ToBulkRows(rows), request.Actor(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, report)
}
