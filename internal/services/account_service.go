package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"corebank/internal/db"
	"corebank/internal/models"
	"corebank/internal/store"
)

type AccountStore interface {
	Create(ctx context.Context, tx store.Execer, account models.Account) error
	GetByID(ctx context.Context, accountID string) (models.Account, error)
	GetByAccountNo(ctx context.Context, accountNo string) (models.Account, error)
	GetForUpdate(ctx context.Context, tx store.Getter, accountID string) (models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	UpdateBalance(ctx context.Context, tx store.Execer, accountID string, balance decimal.Decimal, at time.Time) error
	UpdateStatus(ctx context.Context, tx store.Execer, accountID string, status models.AccountStatus, at time.Time) error
	Reconcile(ctx context.Context) ([]store.AccountReconciliation, error)
}

type AccountLedgerStore interface {
	Insert(ctx context.Context, tx store.Execer, entry models.AccountLedgerEntry) error
	Exists(ctx context.Context, tx store.Getter, accountID, transactionID string, direction models.Direction) (bool, error)
	ListByAccount(ctx context.Context, accountID string) ([]models.AccountLedgerEntry, error)
}

// AccountService owns per-account balances and their append-only ledger.
// Balance mutation and ledger append always share one transaction, and the
// row lock on the account serializes concurrent debits and credits.
type AccountService struct {
	txRunner db.TxRunner
	accounts AccountStore
	ledger   AccountLedgerStore
}

func NewAccountService(txRunner db.TxRunner, accounts AccountStore, ledger AccountLedgerStore) *AccountService {
	return &AccountService{
		txRunner: txRunner,
		accounts: accounts,
		ledger:   ledger,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, customerID, currency string) (models.Account, error) {
	customerID = strings.TrimSpace(customerID)
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if customerID == "" || len(currency) != 3 {
		return models.Account{}, ErrInvalidAccount
	}
	now := time.Now().UTC()
	account := models.Account{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		AccountNo:  generateAccountNo(),
		Currency:   currency,
		Balance:    decimal.Zero,
		Status:     models.AccountActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.accounts.Create(ctx, tx, account)
	})
	if err != nil {
		return models.Account{}, err
	}
	log.Printf("account created: id=%s no=%s currency=%s", account.ID, account.AccountNo, account.Currency)
	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID string) (models.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (s *AccountService) GetAccountByNo(ctx context.Context, accountNo string) (models.Account, error) {
	account, err := s.accounts.GetByAccountNo(ctx, accountNo)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.accounts.List(ctx)
}

func (s *AccountService) GetLedger(ctx context.Context, accountID string) ([]models.AccountLedgerEntry, error) {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return s.ledger.ListByAccount(ctx, accountID)
}

func (s *AccountService) Reconcile(ctx context.Context) ([]store.AccountReconciliation, error) {
	return s.accounts.Reconcile(ctx)
}

// Debit withdraws amount from the account and appends a DEBIT ledger entry
// in the same transaction. Repeating a call with the same transactionID is a
// no-op: the (account, transaction, direction) key already holds an entry.
func (s *AccountService) Debit(ctx context.Context, accountID string, amount decimal.Decimal, currency, transactionID string) error {
	return s.move(ctx, accountID, amount, currency, transactionID, models.DirectionDebit)
}

// Credit deposits amount into the account with the same atomicity and
// idempotency guarantees as Debit. There is no upper bound on a balance.
func (s *AccountService) Credit(ctx context.Context, accountID string, amount decimal.Decimal, currency, transactionID string) error {
	return s.move(ctx, accountID, amount, currency, transactionID, models.DirectionCredit)
}

func (s *AccountService) move(ctx context.Context, accountID string, amount decimal.Decimal, currency, transactionID string, direction models.Direction) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if transactionID == "" {
		return fmt.Errorf("transaction id is required")
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.accounts.GetForUpdate(ctx, tx, accountID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}
		applied, err := s.ledger.Exists(ctx, tx, accountID, transactionID, direction)
		if err != nil {
			return err
		}
		if applied {
			log.Printf("%s already applied: account=%s transaction=%s", direction, accountID, transactionID)
			return nil
		}
		if account.Status != models.AccountActive {
			return ErrAccountNotActive
		}
		if account.Currency != currency {
			return ErrCurrencyMismatch
		}
		newBalance := account.Balance.Add(amount)
		if direction == models.DirectionDebit {
			if account.Balance.LessThan(amount) {
				return ErrInsufficientFunds
			}
			newBalance = account.Balance.Sub(amount)
		}
		now := time.Now().UTC()
		if err := s.accounts.UpdateBalance(ctx, tx, accountID, newBalance, now); err != nil {
			return err
		}
		if err := s.ledger.Insert(ctx, tx, models.AccountLedgerEntry{
			ID:            uuid.NewString(),
			AccountID:     accountID,
			TransactionID: transactionID,
			Direction:     direction,
			Amount:        amount,
			BalanceAfter:  newBalance,
			OccurredAt:    now,
		}); err != nil {
			return err
		}
		log.Printf("%s applied: account=%s transaction=%s amount=%s balance=%s",
			direction, accountID, transactionID, amount, newBalance)
		return nil
	})
}

func (s *AccountService) Freeze(ctx context.Context, accountID string) error {
	return s.setStatus(ctx, accountID, models.AccountFrozen)
}

func (s *AccountService) Unfreeze(ctx context.Context, accountID string) error {
	return s.setStatus(ctx, accountID, models.AccountActive)
}

func (s *AccountService) setStatus(ctx context.Context, accountID string, status models.AccountStatus) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.accounts.GetForUpdate(ctx, tx, accountID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}
		if account.Status == status {
			return nil
		}
		if account.Status == models.AccountClosed {
			return ErrAccountNotActive
		}
		return s.accounts.UpdateStatus(ctx, tx, accountID, status, time.Now().UTC())
	})
}

func generateAccountNo() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ACC%d%s", time.Now().UnixMilli(), suffix)
}
