package handler

import (
	"net/http"

	"github.com/camvault/dealer-ledger/internal/delivery/http/request"
	"github.com/camvault/dealer-ledger/internal/delivery/http/response"
	"github.com/camvault/dealer-ledger/internal/pkg/logger"
	"github.com/camvault/dealer-ledger/internal/usecase/ledger"
)

// DealerHandler handles dealer-scoped ledger requests
type DealerHandler struct {
	service *ledger.Service
	logger  *logger.Logger
}

// NewDealerHandler creates a new dealer handler
func NewDealerHandler(service *ledger.Service, log *logger.Logger) *DealerHandler {
	return &DealerHandler{
		service: service,
		logger:  log,
	}
}

// CreateTransaction handles POST /api/v1/dealers/{dealerID}/transactions
// @Summary Record a dealer transaction
// @Description Creates a pending purchase or sale. Inventory changes only once the payment is verified.
// @Tags Dealers
// @Accept json
// @Produce json
// @Param X-Actor-ID header string false "Acting user" default(admin)
// @Param dealerID path string true "Dealer ID (UUID)"
// @Param transaction body ledger.CreateTransactionInput true "Transaction lines"
// @Success 201 {object} map[string]interface{} "Transaction created"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Dealer not found"
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Router /dealers/{dealerID}/transactions [post]
func (h *DealerHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	dealerID, err := request.GetUUIDParam(r, "dealerID")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid dealer ID")
		return
	}

	var input ledger.CreateTransactionInput
	if err := request.DecodeJSON(r, &input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	input.DealerID = dealerID

	txn, err := h.service.CreateTransaction(r.Context(), input, request.Actor(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Created(w, txn)
}

// ListTransactions handles GET /api/v1/dealers/{dealerID}/transactions
// @Summary List dealer transactions
// @Tags Dealers
// @Produce json
// @Param dealerID path string true "Dealer ID (UUID)"
// @Param limit query int false "Number of items per page (max 100)" default(20)
// @Param offset query int false "Number of items to skip" default(0)
// @Success 200 {object} map[string]interface{} "Paginated list of transactions"
// @Failure 400 {object} map[string]string "Invalid dealer ID"
// @Failure 404 {object} map[string]string "Dealer not found"
// @Router /dealers/{dealerID}/transactions [get]
func (h *DealerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	dealerID, err := request.GetUUIDParam(r, "dealerID")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid dealer ID")
		return
	}

	limit, offset := request.GetPaginationParams(r)

	txns, total, err := h.service.ListTransactions(r.Context(), dealerID, limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Paginated(w, txns, total, limit, offset)
}

// Stats handles GET /api/v1/dealers/{dealerID}/stats
// @Summary Dealer stats
// @Description Totals over completed transactions. Profit is sale amount minus purchase amount.
// @Tags Dealers
// @Produce json
// @Param dealerID path string true "Dealer ID (UUID)"
// @Success 200 {object} map[string]interface{} "Dealer stats"
// @Failure 400 {object} map[string]string "Invalid dealer ID"
// @Failure 404 {object} map[string]string "Dealer not found"
// @Router /dealers/{dealerID}/stats [get]
func (h *DealerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	dealerID, err := request.GetUUIDParam(r, "dealerID")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid dealer ID")
		return
	}

	stats, err := h.service.GetStats(r.Context(), dealerID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, stats)
}

// Inventory handles GET /api/v1/dealers/{dealerID}/inventory
// @Summary Dealer inventory
// @Tags Dealers
// @Produce json
// @Param dealerID path string true "Dealer ID (UUID)"
// @Success 200 {object} map[string]interface{} "Inventory rows"
// @Failure 400 {object} map[string]string "Invalid dealer ID"
// @Failure 404 {object} map[string]string "Dealer not found"
// @Router /dealers/{dealerID}/inventory [get]
func (h *DealerHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	dealerID, err := request.GetUUIDParam(r, "dealerID")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid dealer ID")
		return
	}

	rows, err := h.service.GetInventory(r.Context(), dealerID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, rows)
}
