package store

import (
	"context"

	"corebank/internal/models"
)

// LedgerStore covers the chart of accounts and the double-entry posting
// lines of the general ledger.
type LedgerStore struct {
	db DB
}

func NewLedgerStore(db DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) GetAccountByCode(ctx context.Context, tx Getter, code string) (models.LedgerAccount, error) {
	var row models.LedgerAccount
	err := tx.GetContext(ctx, &row, `
		SELECT id, code, name, type
		FROM ledger_accounts
		WHERE code = $1
	`, code)
	if err != nil {
		return models.LedgerAccount{}, err
	}
	return row, nil
}

func (s *LedgerStore) InsertEntries(ctx context.Context, tx Execer, entries []models.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, transaction_id, ledger_account_id, debit_amount, credit_amount, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, query,
			entry.ID, entry.TransactionID, entry.LedgerAccountID,
			entry.DebitAmount, entry.CreditAmount, entry.OccurredAt); err != nil {
			return err
		}
	}
	return nil
}

func (s *LedgerStore) ListByTransaction(ctx context.Context, transactionID string) ([]models.LedgerEntry, error) {
	var rows []models.LedgerEntry
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, transaction_id, ledger_account_id, debit_amount, credit_amount, occurred_at
		FROM ledger_entries
		WHERE transaction_id = $1
		ORDER BY occurred_at, id
	`, transactionID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
