package handler

import (
	"net/http"

	"github.com/camvault/dealer-ledger/internal/delivery/http/request"
	"github.com/camvault/dealer-ledger/internal/delivery/http/response"
	"github.com/camvault/dealer-ledger/internal/domain"
	"github.com/camvault/dealer-ledger/internal/pkg/logger"
	"github.com/camvault/dealer-ledger/internal/usecase/ledger"
)

// TransactionHandler handles requests on a single dealer transaction
type TransactionHandler struct {
	service *ledger.Service
	logger  *logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service *ledger.Service, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		logger:  log,
	}
}

// GetByID handles GET /api/v1/transactions/{id}
// @Summary Get a transaction
// @Tags Transactions
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Success 200 {object} map[string]interface{} "Transaction with items"
// @Failure 400 {object} map[string]string "Invalid transaction ID"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	txn, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, txn)
}

// VerifyPayment handles POST /api/v1/transactions/{id}/verify-payment
// @Summary Verify a payment and complete the transaction
// @Description Checks the gateway signature, completes the transaction and applies it to the dealer inventory.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param X-Actor-ID header string false "Acting user" default(admin)
// @Param id path string true "Transaction ID (UUID)"
// @Param proof body domain.PaymentProof true "Gateway payment proof"
// @Success 200 {object} map[string]interface{} "Transaction completed"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 402 {object} map[string]string "Payment proof rejected"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is not pending"
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Router /transactions/{id}/verify-payment [post]
func (h *TransactionHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	var proof domain.PaymentProof
	if err := request.DecodeJSON(r, &proof); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	txn, err := h.service.CompletePayment(r.Context(), id, proof, request.Actor(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, txn)
}

// Cancel handles POST /api/v1/transactions/{id}/cancel
// @Summary Cancel a pending transaction
// @Tags Transactions
// @Produce json
// @Param X-Actor-ID header string false "Acting user" default(admin)
// @Param id path string true "Transaction ID (UUID)"
// @Success 200 {object} map[string]interface{} "Transaction cancelled"
// @Failure 400 {object} map[string]string "Invalid transaction ID"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is not pending"
// @Router /transactions/{id}/cancel [post]
func (h *TransactionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	txn, err := h.service.CancelTransaction(r.Context(), id, request.Actor(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, txn)
}

// CODAdvance handles GET /api/v1/transactions/{id}/cod-advance
// @Summary Cash-on-delivery advance
// @Description Advance to collect up front for a cash-on-delivery order
// @Tags Transactions
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Success 200 {object} ledger.CODQuote "Advance quote"
// @Failure 400 {object} map[string]string "Invalid transaction ID"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /transactions/{id}/cod-advance [get]
func (h *TransactionHandler) CODAdvance(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	quote, err := h.service.CODAdvance(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, quote)
}
