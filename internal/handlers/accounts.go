package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"corebank/internal/models"
	"corebank/internal/money"
)

type createAccountRequest struct {
	CustomerID string `json:"customer_id"`
	Currency   string `json:"currency"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	account, err := h.accounts.CreateAccount(r.Context(), req.CustomerID, req.Currency)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, accountResponse(account))
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load accounts")
		return
	}
	response := make([]map[string]any, 0, len(accounts))
	for _, account := range accounts {
		response = append(response, accountResponse(account))
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, accountResponse(account))
}

func (h *Handler) GetAccountByNo(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetAccountByNo(r.Context(), chi.URLParam(r, "accountNo"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, accountResponse(account))
}

func (h *Handler) GetAccountLedger(w http.ResponseWriter, r *http.Request) {
	entries, err := h.accounts.GetLedger(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		response = append(response, map[string]any{
			"id":             entry.ID,
			"account_id":     entry.AccountID,
			"transaction_id": entry.TransactionID,
			"direction":      entry.Direction,
			"amount":         money.Format(entry.Amount),
			"balance_after":  money.Format(entry.BalanceAfter),
			"occurred_at":    entry.OccurredAt,
		})
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) FreezeAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Freeze(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(models.AccountFrozen)})
}

func (h *Handler) UnfreezeAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Unfreeze(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(models.AccountActive)})
}

func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	rows, err := h.accounts.Reconcile(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to reconcile")
		return
	}
	response := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		response = append(response, map[string]any{
			"account_id":     row.AccountID,
			"currency":       row.Currency,
			"stored_balance": money.Format(row.StoredBalance),
			"ledger_sum":     money.Format(row.LedgerSum),
			"difference":     money.Format(row.Difference),
		})
	}
	respondJSON(w, http.StatusOK, response)
}

func accountResponse(account models.Account) map[string]any {
	return map[string]any{
		"id":          account.ID,
		"customer_id": account.CustomerID,
		"account_no":  account.AccountNo,
		"currency":    account.Currency,
		"balance":     money.Format(account.Balance),
		"status":      account.Status,
		"created_at":  account.CreatedAt,
		"updated_at":  account.UpdatedAt,
	}
}
