package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"corebank/internal/config"
	"corebank/internal/websocket"
)

type Handler struct {
	cfg       config.Config
	accounts  AccountService
	transfers TransferService
	ledger    LedgerService
	hub       *websocket.Hub
}

func New(cfg config.Config, accounts AccountService, transfers TransferService, ledger LedgerService, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:       cfg,
		accounts:  accounts,
		transfers: transfers,
		ledger:    ledger,
		hub:       hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/accounts", func(r chi.Router) {
		r.Post("/", h.CreateAccount)
		r.Get("/", h.ListAccounts)
		r.Get("/reconcile", h.Reconcile)
		r.Get("/no/{accountNo}", h.GetAccountByNo)
		r.Get("/{id}", h.GetAccount)
		r.Get("/{id}/ledger", h.GetAccountLedger)
		r.Post("/{id}/freeze", h.FreezeAccount)
		r.Post("/{id}/unfreeze", h.UnfreezeAccount)
	})

	router.Route("/transfers", func(r chi.Router) {
		r.Post("/", h.CreateTransfer)
		r.Get("/", h.ListTransfers)
		r.Get("/{id}", h.GetTransfer)
	})

	router.Get("/ledger/entries/{transactionId}", h.GetLedgerEntries)
	router.Get("/ws/transfers", h.WSTransfers)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

func (h *Handler) WSTransfers(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWS(w, r, h.hub)
}
