package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"corebank/internal/models"
	"corebank/internal/money"
	"corebank/internal/services"
)

type createTransferRequest struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Type          string `json:"type"`
}

func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		respondError(w, http.StatusBadRequest, "invalid_currency")
		return
	}
	transferType := models.TransferInternal
	if trimmed := strings.ToUpper(strings.TrimSpace(req.Type)); trimmed != "" {
		transferType = models.TransferType(trimmed)
		if transferType != models.TransferInternal && transferType != models.TransferExternal {
			respondError(w, http.StatusBadRequest, "invalid_type")
			return
		}
	}
	transfer, err := h.transfers.CreateTransfer(r.Context(), services.CreateTransferRequest{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        amount,
		Currency:      currency,
		Type:          transferType,
	})
	if err != nil {
		var saga *services.SagaError
		if errors.As(err, &saga) {
			// The transfer record itself was created; report the terminal
			// FAILED state alongside the root cause.
			respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"transfer": transferResponse(transfer),
				"step":     saga.Step,
				"error":    saga.Cause.Error(),
			})
			return
		}
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, transferResponse(transfer))
}

func (h *Handler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	transfer, err := h.transfers.GetTransfer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transferResponse(transfer))
}

func (h *Handler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	transfers, err := h.transfers.ListTransfers(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transfers")
		return
	}
	response := make([]map[string]any, 0, len(transfers))
	for _, transfer := range transfers {
		response = append(response, transferResponse(transfer))
	}
	respondJSON(w, http.StatusOK, response)
}

func transferResponse(transfer models.Transfer) map[string]any {
	return map[string]any{
		"id":              transfer.ID,
		"from_account_id": transfer.FromAccountID,
		"to_account_id":   transfer.ToAccountID,
		"amount":          money.Format(transfer.Amount),
		"currency":        transfer.Currency,
		"type":            transfer.Type,
		"status":          transfer.Status,
		"created_at":      transfer.CreatedAt,
		"updated_at":      transfer.UpdatedAt,
	}
}
