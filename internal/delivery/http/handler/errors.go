package handler

import (
	"errors"
	"net/http"

	"github.com/camvault/dealer-ledger/internal/delivery/http/response"
	"github.com/camvault/dealer-ledger/internal/domain"
	"github.com/camvault/dealer-ledger/internal/pkg/logger"
)

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidPaymentProof):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStorage):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the failure reason for caller errors and a generic message otherwise
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := statusFor(err)

	switch status {
	case http.StatusInternalServerError:
		log.Error("Internal error in handler", err)
		response.Error(w, status, "Internal server error")
	case http.StatusServiceUnavailable:
		log.Error("Storage unavailable", err)
		response.Error(w, status, "Service temporarily unavailable, please retry")
	default:
		response.Error(w, status, err.Error())
	}
}
