package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"corebank/internal/db"
	"corebank/internal/models"
	"corebank/internal/store"
)

type LedgerStore interface {
	GetAccountByCode(ctx context.Context, tx store.Getter, code string) (models.LedgerAccount, error)
	InsertEntries(ctx context.Context, tx store.Execer, entries []models.LedgerEntry) error
	ListByTransaction(ctx context.Context, transactionID string) ([]models.LedgerEntry, error)
}

// PostingEntry is one line of a double-entry batch. Exactly one of
// DebitAmount or CreditAmount must be set, and it must be positive.
type PostingEntry struct {
	LedgerAccountCode string
	DebitAmount       *decimal.Decimal
	CreditAmount      *decimal.Decimal
}

// LedgerService owns the general ledger: the chart of accounts and the
// double-entry posting lines keyed by transaction id.
type LedgerService struct {
	txRunner db.TxRunner
	ledger   LedgerStore
}

func NewLedgerService(txRunner db.TxRunner, ledger LedgerStore) *LedgerService {
	return &LedgerService{txRunner: txRunner, ledger: ledger}
}

// PostEntries writes one ledger row per entry. The batch is validated for
// balance before any row is written and the writes share one transaction,
// so an unbalanced or partially invalid batch leaves nothing behind.
func (s *LedgerService) PostEntries(ctx context.Context, transactionID string, entries []PostingEntry) error {
	if len(entries) == 0 {
		return ErrEmptyPosting
	}
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, entry := range entries {
		switch {
		case entry.DebitAmount != nil && entry.CreditAmount == nil && entry.DebitAmount.GreaterThan(decimal.Zero):
			totalDebit = totalDebit.Add(*entry.DebitAmount)
		case entry.CreditAmount != nil && entry.DebitAmount == nil && entry.CreditAmount.GreaterThan(decimal.Zero):
			totalCredit = totalCredit.Add(*entry.CreditAmount)
		default:
			return ErrInvalidPosting
		}
	}
	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("%w: debit=%s credit=%s", ErrUnbalancedPosting, totalDebit, totalCredit)
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		rows := make([]models.LedgerEntry, 0, len(entries))
		for _, entry := range entries {
			account, err := s.ledger.GetAccountByCode(ctx, tx, entry.LedgerAccountCode)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrUnknownLedgerAccount, entry.LedgerAccountCode)
			}
			if err != nil {
				return err
			}
			rows = append(rows, models.LedgerEntry{
				ID:              uuid.NewString(),
				TransactionID:   transactionID,
				LedgerAccountID: account.ID,
				DebitAmount:     entry.DebitAmount,
				CreditAmount:    entry.CreditAmount,
				OccurredAt:      now,
			})
		}
		return s.ledger.InsertEntries(ctx, tx, rows)
	})
	if err != nil {
		return err
	}
	log.Printf("posting committed: transaction=%s debit=%s credit=%s", transactionID, totalDebit, totalCredit)
	return nil
}

func (s *LedgerService) GetEntries(ctx context.Context, transactionID string) ([]models.LedgerEntry, error) {
	return s.ledger.ListByTransaction(ctx, transactionID)
}
