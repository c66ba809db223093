package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"corebank/internal/events"
	"corebank/internal/models"
	"corebank/internal/websocket"
)

const (
	ledgerCodeCash            = "CASH"
	ledgerCodeCustomerDeposit = "CUSTOMER_DEPOSIT"

	stepRiskCheck  = "risk_check"
	stepDebit      = "debit"
	stepCredit     = "credit"
	stepLedgerPost = "ledger_post"
	stepNotify     = "notify"
)

type TransferStore interface {
	Create(ctx context.Context, transfer models.Transfer) error
	UpdateStatus(ctx context.Context, transferID string, status models.TransferStatus, at time.Time) error
	GetByID(ctx context.Context, transferID string) (models.Transfer, error)
	List(ctx context.Context, limit, offset int) ([]models.Transfer, error)
}

type RiskChecker interface {
	Check(ctx context.Context, req RiskCheckRequest) (models.RiskDecision, error)
}

// FundsMover is the slice of the account service the saga drives. Debit and
// Credit are idempotent on (account, transactionID, direction), which is what
// makes retries and compensation safe.
type FundsMover interface {
	GetAccount(ctx context.Context, accountID string) (models.Account, error)
	Debit(ctx context.Context, accountID string, amount decimal.Decimal, currency, transactionID string) error
	Credit(ctx context.Context, accountID string, amount decimal.Decimal, currency, transactionID string) error
}

type LedgerPoster interface {
	PostEntries(ctx context.Context, transactionID string, entries []PostingEntry) error
}

type Notifier interface {
	Send(ctx context.Context, req SendNotificationRequest) (models.Notification, error)
}

type StatusHub interface {
	BroadcastStatus(update websocket.StatusUpdate)
}

type EventPublisher interface {
	PublishTransferCompleted(ctx context.Context, event events.TransferCompleted) error
	PublishTransferFailed(ctx context.Context, event events.TransferFailed) error
}

// TransferService drives the transfer saga. Collaborators arrive as explicit
// dependencies resolved at startup; each downstream call is bounded by a
// timeout and retried only when the failure is not a business rejection. A
// failure after funds started moving triggers compensating entries in
// reverse completion order before the terminal FAILED transition.
type TransferService struct {
	transfers   TransferStore
	risk        RiskChecker
	accounts    FundsMover
	ledger      LedgerPoster
	notifier    Notifier
	hub         StatusHub
	events      EventPublisher
	stepTimeout time.Duration
	maxAttempts int
}

func NewTransferService(
	transfers TransferStore,
	risk RiskChecker,
	accounts FundsMover,
	ledger LedgerPoster,
	notifier Notifier,
	hub StatusHub,
	publisher EventPublisher,
	stepTimeout time.Duration,
	maxAttempts int,
) *TransferService {
	if stepTimeout <= 0 {
		stepTimeout = 5 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &TransferService{
		transfers:   transfers,
		risk:        risk,
		accounts:    accounts,
		ledger:      ledger,
		notifier:    notifier,
		hub:         hub,
		events:      publisher,
		stepTimeout: stepTimeout,
		maxAttempts: maxAttempts,
	}
}

type CreateTransferRequest struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Currency      string
	Type          models.TransferType
}

// CreateTransfer persists the transfer record, then runs the saga to
// completion or to FAILED. The returned transfer always reflects the final
// persisted status; on failure the error names the step that aborted it.
func (s *TransferService) CreateTransfer(ctx context.Context, req CreateTransferRequest) (models.Transfer, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return models.Transfer{}, ErrInvalidAmount
	}
	if req.FromAccountID == "" || req.ToAccountID == "" {
		return models.Transfer{}, ErrInvalidAccount
	}
	if req.FromAccountID == req.ToAccountID {
		return models.Transfer{}, ErrSameAccountTransfer
	}
	transferType := req.Type
	if transferType == "" {
		transferType = models.TransferInternal
	}
	now := time.Now().UTC()
	transfer := models.Transfer{
		ID:            uuid.NewString(),
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Type:          transferType,
		Status:        models.TransferInit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.transfers.Create(ctx, transfer); err != nil {
		return models.Transfer{}, err
	}
	log.Printf("transfer created: id=%s from=%s to=%s amount=%s %s",
		transfer.ID, transfer.FromAccountID, transfer.ToAccountID, transfer.Amount, transfer.Currency)

	if err := s.run(ctx, &transfer); err != nil {
		return transfer, err
	}
	return transfer, nil
}

func (s *TransferService) GetTransfer(ctx context.Context, transferID string) (models.Transfer, error) {
	transfer, err := s.transfers.GetByID(ctx, transferID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transfer{}, ErrTransferNotFound
	}
	if err != nil {
		return models.Transfer{}, err
	}
	return transfer, nil
}

func (s *TransferService) ListTransfers(ctx context.Context, limit, offset int) ([]models.Transfer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.transfers.List(ctx, limit, offset)
}

func (s *TransferService) run(ctx context.Context, transfer *models.Transfer) error {
	// Compensations accumulate as monetary steps complete and run in
	// reverse order when a later step fails.
	var compensations []func(context.Context) error

	if err := s.setStatus(ctx, transfer, models.TransferRiskChecking); err != nil {
		return s.fail(ctx, transfer, stepRiskCheck, err, compensations)
	}
	var decision models.RiskDecision
	err := s.callStep(ctx, transfer.ID, stepRiskCheck, func(stepCtx context.Context) error {
		var checkErr error
		decision, checkErr = s.risk.Check(stepCtx, RiskCheckRequest{
			FromAccountID: transfer.FromAccountID,
			ToAccountID:   transfer.ToAccountID,
			Amount:        transfer.Amount,
			Currency:      transfer.Currency,
			TransferID:    transfer.ID,
		})
		return checkErr
	})
	if err != nil {
		return s.fail(ctx, transfer, stepRiskCheck, err, compensations)
	}
	if decision.Result != models.RiskAllow {
		return s.fail(ctx, transfer, stepRiskCheck, &RiskDeniedError{ReasonCode: decision.ReasonCode}, compensations)
	}
	if err := s.setStatus(ctx, transfer, models.TransferRiskPassed); err != nil {
		return s.fail(ctx, transfer, stepRiskCheck, err, compensations)
	}

	err = s.callStep(ctx, transfer.ID, stepDebit, func(stepCtx context.Context) error {
		return s.accounts.Debit(stepCtx, transfer.FromAccountID, transfer.Amount, transfer.Currency, transfer.ID)
	})
	if err != nil {
		return s.fail(ctx, transfer, stepDebit, err, compensations)
	}
	compensations = append(compensations, func(compCtx context.Context) error {
		return s.accounts.Credit(compCtx, transfer.FromAccountID, transfer.Amount, transfer.Currency, transfer.ID)
	})
	if err := s.setStatus(ctx, transfer, models.TransferDebitDone); err != nil {
		return s.fail(ctx, transfer, stepDebit, err, compensations)
	}

	err = s.callStep(ctx, transfer.ID, stepCredit, func(stepCtx context.Context) error {
		return s.accounts.Credit(stepCtx, transfer.ToAccountID, transfer.Amount, transfer.Currency, transfer.ID)
	})
	if err != nil {
		return s.fail(ctx, transfer, stepCredit, err, compensations)
	}
	compensations = append(compensations, func(compCtx context.Context) error {
		return s.accounts.Debit(compCtx, transfer.ToAccountID, transfer.Amount, transfer.Currency, transfer.ID)
	})
	if err := s.setStatus(ctx, transfer, models.TransferCreditDone); err != nil {
		return s.fail(ctx, transfer, stepCredit, err, compensations)
	}

	debitAmount := transfer.Amount
	creditAmount := transfer.Amount
	err = s.callStep(ctx, transfer.ID, stepLedgerPost, func(stepCtx context.Context) error {
		return s.ledger.PostEntries(stepCtx, transfer.ID, []PostingEntry{
			{LedgerAccountCode: ledgerCodeCash, DebitAmount: &debitAmount},
			{LedgerAccountCode: ledgerCodeCustomerDeposit, CreditAmount: &creditAmount},
		})
	})
	if err != nil {
		return s.fail(ctx, transfer, stepLedgerPost, err, compensations)
	}
	if err := s.setStatus(ctx, transfer, models.TransferLedgerPosted); err != nil {
		return s.fail(ctx, transfer, stepLedgerPost, err, compensations)
	}

	// The notification carries no monetary effect; a persistent failure is
	// logged instead of unwinding a completed money movement.
	if err := s.notify(ctx, transfer); err != nil {
		log.Printf("notification failed: transfer=%s error=%v", transfer.ID, err)
	}

	if err := s.setStatus(ctx, transfer, models.TransferSuccess); err != nil {
		return s.fail(ctx, transfer, stepNotify, err, compensations)
	}
	if err := s.events.PublishTransferCompleted(context.WithoutCancel(ctx), events.TransferCompleted{
		TransferID:    transfer.ID,
		FromAccountID: transfer.FromAccountID,
		ToAccountID:   transfer.ToAccountID,
		Amount:        transfer.Amount,
		Currency:      transfer.Currency,
		OccurredAt:    time.Now().UTC(),
	}); err != nil {
		log.Printf("event publish failed: transfer=%s error=%v", transfer.ID, err)
	}
	log.Printf("transfer succeeded: id=%s", transfer.ID)
	return nil
}

func (s *TransferService) notify(ctx context.Context, transfer *models.Transfer) error {
	return s.callStep(ctx, transfer.ID, stepNotify, func(stepCtx context.Context) error {
		customerID := ""
		if account, err := s.accounts.GetAccount(stepCtx, transfer.FromAccountID); err == nil {
			customerID = account.CustomerID
		}
		_, err := s.notifier.Send(stepCtx, SendNotificationRequest{
			TransferID:   transfer.ID,
			CustomerID:   customerID,
			Channel:      "SMS",
			TemplateCode: "TRANSFER_SUCCESS",
			Params: map[string]string{
				"amount":     transfer.Amount.StringFixed(2),
				"to_account": transfer.ToAccountID,
			},
		})
		return err
	})
}

// callStep runs one downstream call with a per-call timeout. Business
// rejections surface immediately; anything else is retried with backoff up
// to the configured attempt budget.
func (s *TransferService) callStep(ctx context.Context, transferID, step string, fn func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
		err = fn(stepCtx)
		cancel()
		if err == nil {
			return nil
		}
		if IsBusinessError(err) {
			return err
		}
		log.Printf("step %s attempt %d failed: transfer=%s error=%v", step, attempt, transferID, err)
		if attempt < s.maxAttempts {
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}
	}
	return err
}

// fail unwinds completed monetary steps in reverse order, then records the
// terminal FAILED transition. Compensation runs detached from the caller's
// context so a disconnect cannot strand a half-reversed transfer.
func (s *TransferService) fail(ctx context.Context, transfer *models.Transfer, step string, cause error, compensations []func(context.Context) error) error {
	detached := context.WithoutCancel(ctx)
	for i := len(compensations) - 1; i >= 0; i-- {
		if compErr := s.callStep(detached, transfer.ID, "compensate", compensations[i]); compErr != nil {
			// Stop the unwind here. Refunding an earlier leg while a later
			// one still stands would conjure the amount out of nothing; the
			// stalled reversal is idempotent on the transfer id, so it can
			// be replayed once the blocking condition clears.
			log.Printf("compensation stalled: transfer=%s error=%v", transfer.ID, compErr)
			break
		}
	}
	if err := s.setStatus(detached, transfer, models.TransferFailed); err != nil {
		log.Printf("failed-status write failed: transfer=%s error=%v", transfer.ID, err)
	}
	if err := s.events.PublishTransferFailed(detached, events.TransferFailed{
		TransferID: transfer.ID,
		Step:       step,
		Reason:     cause.Error(),
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		log.Printf("event publish failed: transfer=%s error=%v", transfer.ID, err)
	}
	log.Printf("transfer failed: id=%s step=%s cause=%v", transfer.ID, step, cause)
	return &SagaError{Step: step, Cause: cause}
}

func (s *TransferService) setStatus(ctx context.Context, transfer *models.Transfer, status models.TransferStatus) error {
	now := time.Now().UTC()
	if err := s.transfers.UpdateStatus(ctx, transfer.ID, status, now); err != nil {
		return err
	}
	transfer.Status = status
	transfer.UpdatedAt = now
	s.hub.BroadcastStatus(websocket.StatusUpdate{
		TransferID: transfer.ID,
		Status:     string(status),
		UpdatedAt:  now,
	})
	log.Printf("transfer status: id=%s status=%s", transfer.ID, status)
	return nil
}
