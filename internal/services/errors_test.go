package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsBusinessError(t *testing.T) {
	business := []error{
		ErrInsufficientFunds,
		ErrAccountNotActive,
		ErrCurrencyMismatch,
		ErrUnbalancedPosting,
		&RiskDeniedError{ReasonCode: RiskReasonAmountLimit},
		fmt.Errorf("wrapped: %w", ErrInsufficientFunds),
	}
	for _, err := range business {
		if !IsBusinessError(err) {
			t.Fatalf("expected business error: %v", err)
		}
	}

	infra := []error{
		errors.New("connection reset"),
		fmt.Errorf("query failed: %w", errors.New("timeout")),
	}
	for _, err := range infra {
		if IsBusinessError(err) {
			t.Fatalf("expected infrastructure error: %v", err)
		}
	}
}

func TestSagaErrorUnwrap(t *testing.T) {
	err := &SagaError{Step: "debit", Cause: ErrInsufficientFunds}
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("saga error must unwrap to its cause")
	}
	if err.Error() != "transfer failed at debit: insufficient funds" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
