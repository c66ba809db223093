package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"corebank/internal/money"
)

func (h *Handler) GetLedgerEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.GetEntries(r.Context(), chi.URLParam(r, "transactionId"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load entries")
		return
	}
	response := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		item := map[string]any{
			"id":                entry.ID,
			"transaction_id":    entry.TransactionID,
			"ledger_account_id": entry.LedgerAccountID,
			"occurred_at":       entry.OccurredAt,
		}
		if entry.DebitAmount != nil {
			item["debit_amount"] = money.Format(*entry.DebitAmount)
		}
		if entry.CreditAmount != nil {
			item["credit_amount"] = money.Format(*entry.CreditAmount)
		}
		response = append(response, item)
	}
	respondJSON(w, http.StatusOK, response)
}
