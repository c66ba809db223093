package store

import (
	"context"
	"database/sql"
	"errors"

	"corebank/internal/models"
)

type AccountLedgerStore struct {
	db DB
}

func NewAccountLedgerStore(db DB) *AccountLedgerStore {
	return &AccountLedgerStore{db: db}
}

func (s *AccountLedgerStore) Insert(ctx context.Context, tx Execer, entry models.AccountLedgerEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO account_ledger (id, account_id, transaction_id, direction, amount, balance_after, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.AccountID, entry.TransactionID, entry.Direction, entry.Amount, entry.BalanceAfter, entry.OccurredAt)
	return err
}

// Exists reports whether an entry was already written for the idempotency
// key (accountID, transactionID, direction).
func (s *AccountLedgerStore) Exists(ctx context.Context, tx Getter, accountID, transactionID string, direction models.Direction) (bool, error) {
	var id string
	err := tx.GetContext(ctx, &id, `
		SELECT id
		FROM account_ledger
		WHERE account_id = $1 AND transaction_id = $2 AND direction = $3
	`, accountID, transactionID, direction)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AccountLedgerStore) ListByAccount(ctx context.Context, accountID string) ([]models.AccountLedgerEntry, error) {
	var rows []models.AccountLedgerEntry
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, account_id, transaction_id, direction, amount, balance_after, occurred_at
		FROM account_ledger
		WHERE account_id = $1
		ORDER BY occurred_at DESC, id DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
