package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidAccount       = errors.New("invalid account request")
	ErrSameAccountTransfer  = errors.New("cannot transfer to same account")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountNotActive     = errors.New("account not active")
	ErrCurrencyMismatch     = errors.New("currency mismatch")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrTransferNotFound     = errors.New("transfer not found")
	ErrUnknownLedgerAccount = errors.New("unknown ledger account")
	ErrUnbalancedPosting    = errors.New("posting batch is not balanced")
	ErrEmptyPosting         = errors.New("posting batch is empty")
	ErrInvalidPosting       = errors.New("posting entry must carry exactly one positive side")
)

// RiskDeniedError carries the machine-readable reason the risk evaluator
// rejected a transfer.
type RiskDeniedError struct {
	ReasonCode string
}

func (e *RiskDeniedError) Error() string {
	return fmt.Sprintf("risk denied: %s", e.ReasonCode)
}

// SagaError names the saga step that aborted a transfer along with the
// underlying cause.
type SagaError struct {
	Step  string
	Cause error
}

func (e *SagaError) Error() string {
	return fmt.Sprintf("transfer failed at %s: %v", e.Step, e.Cause)
}

func (e *SagaError) Unwrap() error {
	return e.Cause
}

// IsBusinessError reports whether err is a deterministic business rejection.
// Business rejections abort the saga immediately and are never retried;
// everything else is treated as an infrastructure failure.
func IsBusinessError(err error) bool {
	var denied *RiskDeniedError
	if errors.As(err, &denied) {
		return true
	}
	for _, sentinel := range []error{
		ErrInvalidAmount,
		ErrInvalidAccount,
		ErrSameAccountTransfer,
		ErrAccountNotFound,
		ErrAccountNotActive,
		ErrCurrencyMismatch,
		ErrInsufficientFunds,
		ErrUnknownLedgerAccount,
		ErrUnbalancedPosting,
		ErrEmptyPosting,
		ErrInvalidPosting,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
