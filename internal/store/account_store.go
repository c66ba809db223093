package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"corebank/internal/models"
)

type AccountStore struct {
	db DB
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

type AccountReconciliation struct {
	AccountID     string          `db:"account_id"`
	Currency      string          `db:"currency"`
	StoredBalance decimal.Decimal `db:"stored_balance"`
	LedgerSum     decimal.Decimal `db:"ledger_sum"`
	Difference    decimal.Decimal `db:"difference"`
}

func (s *AccountStore) Create(ctx context.Context, tx Execer, account models.Account) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (id, customer_id, account_no, currency, balance, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, account.ID, account.CustomerID, account.AccountNo, account.Currency, account.Balance, account.Status)
	return err
}

func (s *AccountStore) GetByID(ctx context.Context, accountID string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id, customer_id, account_no, currency, balance, status, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) GetByAccountNo(ctx context.Context, accountNo string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id, customer_id, account_no, currency, balance, status, created_at, updated_at
		FROM accounts
		WHERE account_no = $1
	`, accountNo)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) GetForUpdate(ctx context.Context, tx Getter, accountID string) (models.Account, error) {
	var row models.Account
	err := tx.GetContext(ctx, &row, `
		SELECT id, customer_id, account_no, currency, balance, status, created_at, updated_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) List(ctx context.Context) ([]models.Account, error) {
	var rows []models.Account
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, customer_id, account_no, currency, balance, status, created_at, updated_at
		FROM accounts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AccountStore) UpdateBalance(ctx context.Context, tx Execer, accountID string, balance decimal.Decimal, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $1, updated_at = $2
		WHERE id = $3
	`, balance, at, accountID)
	return err
}

func (s *AccountStore) UpdateStatus(ctx context.Context, tx Execer, accountID string, status models.AccountStatus, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET status = $1, updated_at = $2
		WHERE id = $3
	`, status, at, accountID)
	return err
}

// Reconcile compares each stored balance with the signed sum of its
// account_ledger entries. A non-zero difference means the both-or-neither
// write invariant was broken somewhere.
func (s *AccountStore) Reconcile(ctx context.Context) ([]AccountReconciliation, error) {
	var rows []AccountReconciliation
	err := s.db.SelectContext(ctx, &rows, `
		SELECT a.id AS account_id,
		       a.currency,
		       a.balance AS stored_balance,
		       COALESCE(SUM(CASE WHEN l.direction = 'CREDIT' THEN l.amount ELSE -l.amount END), 0) AS ledger_sum,
		       (a.balance - COALESCE(SUM(CASE WHEN l.direction = 'CREDIT' THEN l.amount ELSE -l.amount END), 0)) AS difference
		FROM accounts a
		LEFT JOIN account_ledger l ON l.account_id = a.id
		GROUP BY a.id, a.currency, a.balance
		ORDER BY a.currency, a.id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
