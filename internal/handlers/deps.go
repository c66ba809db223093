package handlers

import (
	"context"

	"corebank/internal/models"
	"corebank/internal/services"
	"corebank/internal/store"
)

type AccountService interface {
	CreateAccount(ctx context.Context, customerID, currency string) (models.Account, error)
	GetAccount(ctx context.Context, accountID string) (models.Account, error)
	GetAccountByNo(ctx context.Context, accountNo string) (models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	GetLedger(ctx context.Context, accountID string) ([]models.AccountLedgerEntry, error)
	Freeze(ctx context.Context, accountID string) error
	Unfreeze(ctx context.Context, accountID string) error
	Reconcile(ctx context.Context) ([]store.AccountReconciliation, error)
}

type TransferService interface {
	CreateTransfer(ctx context.Context, req services.CreateTransferRequest) (models.Transfer, error)
	GetTransfer(ctx context.Context, transferID string) (models.Transfer, error)
	ListTransfers(ctx context.Context, limit, offset int) ([]models.Transfer, error)
}

type LedgerService interface {
	GetEntries(ctx context.Context, transactionID string) ([]models.LedgerEntry, error)
}
