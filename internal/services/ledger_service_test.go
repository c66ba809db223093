package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"corebank/internal/models"
	"corebank/internal/store"
)

type stubLedgerStore struct {
	getAccountByCodeFn func(ctx context.Context, tx store.Getter, code string) (models.LedgerAccount, error)
	insertEntriesFn    func(ctx context.Context, tx store.Execer, entries []models.LedgerEntry) error
	listFn             func(ctx context.Context, transactionID string) ([]models.LedgerEntry, error)
}

func (s stubLedgerStore) GetAccountByCode(ctx context.Context, tx store.Getter, code string) (models.LedgerAccount, error) {
	if s.getAccountByCodeFn == nil {
		return models.LedgerAccount{}, sql.ErrNoRows
	}
	return s.getAccountByCodeFn(ctx, tx, code)
}

func (s stubLedgerStore) InsertEntries(ctx context.Context, tx store.Execer, entries []models.LedgerEntry) error {
	if s.insertEntriesFn == nil {
		return nil
	}
	return s.insertEntriesFn(ctx, tx, entries)
}

func (s stubLedgerStore) ListByTransaction(ctx context.Context, transactionID string) ([]models.LedgerEntry, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, transactionID)
}

func chartOfAccounts() func(ctx context.Context, tx store.Getter, code string) (models.LedgerAccount, error) {
	accounts := map[string]models.LedgerAccount{
		"CASH":             {ID: "la-cash", Code: "CASH", Type: models.LedgerAsset},
		"CUSTOMER_DEPOSIT": {ID: "la-customer-deposit", Code: "CUSTOMER_DEPOSIT", Type: models.LedgerLiability},
	}
	return func(ctx context.Context, tx store.Getter, code string) (models.LedgerAccount, error) {
		account, ok := accounts[code]
		if !ok {
			return models.LedgerAccount{}, sql.ErrNoRows
		}
		return account, nil
	}
}

func TestPostEntries(t *testing.T) {
	var inserted []models.LedgerEntry
	ledger := stubLedgerStore{
		getAccountByCodeFn: chartOfAccounts(),
		insertEntriesFn: func(ctx context.Context, tx store.Execer, entries []models.LedgerEntry) error {
			inserted = entries
			return nil
		},
	}

	amount := decimal.NewFromInt(100)
	svc := NewLedgerService(&fakeTxRunner{}, ledger)
	err := svc.PostEntries(context.Background(), "trf-1", []PostingEntry{
		{LedgerAccountCode: "CASH", DebitAmount: &amount},
		{LedgerAccountCode: "CUSTOMER_DEPOSIT", CreditAmount: &amount},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inserted) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(inserted))
	}
	if inserted[0].LedgerAccountID != "la-cash" || inserted[0].DebitAmount == nil {
		t.Fatalf("unexpected first row: %+v", inserted[0])
	}
	if inserted[1].LedgerAccountID != "la-customer-deposit" || inserted[1].CreditAmount == nil {
		t.Fatalf("unexpected second row: %+v", inserted[1])
	}
	if inserted[0].TransactionID != "trf-1" || inserted[1].TransactionID != "trf-1" {
		t.Fatalf("rows must share the transaction id")
	}
}

func TestPostEntriesUnbalanced(t *testing.T) {
	txRunner := &fakeTxRunner{}
	inserts := 0
	ledger := stubLedgerStore{
		getAccountByCodeFn: chartOfAccounts(),
		insertEntriesFn: func(ctx context.Context, tx store.Execer, entries []models.LedgerEntry) error {
			inserts++
			return nil
		},
	}

	debit := decimal.NewFromInt(100)
	credit := decimal.NewFromInt(90)
	svc := NewLedgerService(txRunner, ledger)
	err := svc.PostEntries(context.Background(), "trf-1", []PostingEntry{
		{LedgerAccountCode: "CASH", DebitAmount: &debit},
		{LedgerAccountCode: "CUSTOMER_DEPOSIT", CreditAmount: &credit},
	})
	if !errors.Is(err, ErrUnbalancedPosting) {
		t.Fatalf("expected ErrUnbalancedPosting, got %v", err)
	}
	if txRunner.calls != 0 || inserts != 0 {
		t.Fatalf("unbalanced batch must be rejected before any write: tx=%d inserts=%d", txRunner.calls, inserts)
	}
}

func TestPostEntriesEmpty(t *testing.T) {
	svc := NewLedgerService(&fakeTxRunner{}, stubLedgerStore{})
	if err := svc.PostEntries(context.Background(), "trf-1", nil); !errors.Is(err, ErrEmptyPosting) {
		t.Fatalf("expected ErrEmptyPosting, got %v", err)
	}
}

func TestPostEntriesInvalidEntry(t *testing.T) {
	amount := decimal.NewFromInt(100)
	svc := NewLedgerService(&fakeTxRunner{}, stubLedgerStore{})

	err := svc.PostEntries(context.Background(), "trf-1", []PostingEntry{
		{LedgerAccountCode: "CASH", DebitAmount: &amount, CreditAmount: &amount},
		{LedgerAccountCode: "CUSTOMER_DEPOSIT", CreditAmount: &amount},
	})
	if !errors.Is(err, ErrInvalidPosting) {
		t.Fatalf("expected ErrInvalidPosting for two-sided entry, got %v", err)
	}

	zero := decimal.Zero
	err = svc.PostEntries(context.Background(), "trf-1", []PostingEntry{
		{LedgerAccountCode: "CASH", DebitAmount: &zero},
		{LedgerAccountCode: "CUSTOMER_DEPOSIT", CreditAmount: &zero},
	})
	if !errors.Is(err, ErrInvalidPosting) {
		t.Fatalf("expected ErrInvalidPosting for zero amount, got %v", err)
	}
}

func TestPostEntriesUnknownAccount(t *testing.T) {
	inserts := 0
	ledger := stubLedgerStore{
		getAccountByCodeFn: chartOfAccounts(),
		insertEntriesFn: func(ctx context.Context, tx store.Execer, entries []models.LedgerEntry) error {
			inserts++
			return nil
		},
	}

	amount := decimal.NewFromInt(100)
	svc := NewLedgerService(&fakeTxRunner{}, ledger)
	err := svc.PostEntries(context.Background(), "trf-1", []PostingEntry{
		{LedgerAccountCode: "NO_SUCH_CODE", DebitAmount: &amount},
		{LedgerAccountCode: "CUSTOMER_DEPOSIT", CreditAmount: &amount},
	})
	if !errors.Is(err, ErrUnknownLedgerAccount) {
		t.Fatalf("expected ErrUnknownLedgerAccount, got %v", err)
	}
	if inserts != 0 {
		t.Fatalf("unknown account must abort before inserts, got %d", inserts)
	}
}
