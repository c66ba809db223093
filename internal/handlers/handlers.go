package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"corebank/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// not-found 404, business rejections 422, bad input 400, the rest 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrAccountNotFound):
		respondError(w, http.StatusNotFound, "account_not_found")
	case errors.Is(err, services.ErrTransferNotFound):
		respondError(w, http.StatusNotFound, "transfer_not_found")
	case errors.Is(err, services.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, services.ErrInvalidAccount):
		respondError(w, http.StatusBadRequest, "invalid_account")
	case errors.Is(err, services.ErrSameAccountTransfer):
		respondError(w, http.StatusBadRequest, "same_account_transfer")
	case errors.Is(err, services.ErrAccountNotActive):
		respondError(w, http.StatusUnprocessableEntity, "account_not_active")
	case errors.Is(err, services.ErrInsufficientFunds):
		respondError(w, http.StatusUnprocessableEntity, "insufficient_funds")
	case errors.Is(err, services.ErrCurrencyMismatch):
		respondError(w, http.StatusUnprocessableEntity, "currency_mismatch")
	case errors.Is(err, services.ErrUnknownLedgerAccount):
		respondError(w, http.StatusUnprocessableEntity, "unknown_ledger_account")
	case errors.Is(err, services.ErrUnbalancedPosting):
		respondError(w, http.StatusUnprocessableEntity, "unbalanced_posting")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error")
	}
}
