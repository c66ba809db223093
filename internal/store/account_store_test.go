package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"corebank/internal/models"
)

func TestAccountStoreCreate(t *testing.T) {
	calls := 0
	execer := stubExecer{
		execFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			calls++
			if !strings.Contains(query, "INSERT INTO accounts") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 6 {
				t.Fatalf("expected 6 args, got %d", len(args))
			}
			if args[0] != "acc-1" || args[1] != "cust-1" {
				t.Fatalf("unexpected args: %v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}

	s := NewAccountStore(stubDB{})
	err := s.Create(context.Background(), execer, models.Account{
		ID:         "acc-1",
		CustomerID: "cust-1",
		AccountNo:  "ACC1",
		Currency:   "USD",
		Balance:    decimal.Zero,
		Status:     models.AccountActive,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 exec call, got %d", calls)
	}
}

func TestAccountStoreGetByID(t *testing.T) {
	db := stubDB{
		getFn: func(ctx context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FROM accounts") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[0] != "acc-1" {
				t.Fatalf("unexpected args: %v", args)
			}
			*dest.(*models.Account) = models.Account{ID: "acc-1", Balance: decimal.NewFromInt(100)}
			return nil
		},
	}

	s := NewAccountStore(db)
	account, err := s.GetByID(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID != "acc-1" {
		t.Fatalf("expected acc-1, got %s", account.ID)
	}
	if !account.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected balance 100, got %s", account.Balance)
	}
}

func TestAccountStoreGetForUpdateLocks(t *testing.T) {
	getter := stubGetter{
		getFn: func(ctx context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("expected row lock in query: %s", query)
			}
			*dest.(*models.Account) = models.Account{ID: "acc-1"}
			return nil
		},
	}

	s := NewAccountStore(stubDB{})
	account, err := s.GetForUpdate(context.Background(), getter, "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID != "acc-1" {
		t.Fatalf("expected acc-1, got %s", account.ID)
	}
}

func TestAccountStoreGetByIDNotFound(t *testing.T) {
	db := stubDB{
		getFn: func(ctx context.Context, dest any, query string, args ...any) error {
			return sql.ErrNoRows
		},
	}

	s := NewAccountStore(db)
	_, err := s.GetByID(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestAccountStoreUpdateBalance(t *testing.T) {
	at := time.Now()
	execer := stubExecer{
		execFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "UPDATE accounts") || !strings.Contains(query, "SET balance") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[2] != "acc-1" {
				t.Fatalf("unexpected account arg: %v", args[2])
			}
			return stubResult{rows: 1}, nil
		},
	}

	s := NewAccountStore(stubDB{})
	if err := s.UpdateBalance(context.Background(), execer, "acc-1", decimal.NewFromInt(250), at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAccountStoreReconcile(t *testing.T) {
	db := stubDB{
		selectFn: func(ctx context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "LEFT JOIN account_ledger") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*[]AccountReconciliation) = []AccountReconciliation{
				{AccountID: "acc-1", StoredBalance: decimal.NewFromInt(100), LedgerSum: decimal.NewFromInt(100), Difference: decimal.Zero},
			}
			return nil
		},
	}

	s := NewAccountStore(db)
	rows, err := s.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || !rows[0].Difference.IsZero() {
		t.Fatalf("unexpected rows: %v", rows)
	}
}
