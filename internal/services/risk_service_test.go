package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"corebank/internal/models"
)

type stubRiskStore struct {
	insertFn func(ctx context.Context, decision models.RiskDecision) error
	listFn   func(ctx context.Context, transferID string) ([]models.RiskDecision, error)
}

func (s stubRiskStore) Insert(ctx context.Context, decision models.RiskDecision) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, decision)
}

func (s stubRiskStore) ListByTransfer(ctx context.Context, transferID string) ([]models.RiskDecision, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, transferID)
}

func riskRequest(amount int64) RiskCheckRequest {
	return RiskCheckRequest{
		FromAccountID: "acc-1",
		ToAccountID:   "acc-2",
		Amount:        decimal.NewFromInt(amount),
		Currency:      "USD",
		TransferID:    "trf-1",
	}
}

func TestRiskCheckAllows(t *testing.T) {
	var persisted models.RiskDecision
	decisions := stubRiskStore{
		insertFn: func(ctx context.Context, decision models.RiskDecision) error {
			persisted = decision
			return nil
		},
	}

	svc := NewRiskService(decisions, decimal.NewFromInt(50000))
	decision, err := svc.Check(context.Background(), riskRequest(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Result != models.RiskAllow || decision.ReasonCode != RiskReasonOK {
		t.Fatalf("unexpected decision: %+v", decision)
	}
	if persisted.Result != models.RiskAllow {
		t.Fatalf("decision was not persisted: %+v", persisted)
	}
}

func TestRiskCheckDeniesOverLimit(t *testing.T) {
	var persisted models.RiskDecision
	decisions := stubRiskStore{
		insertFn: func(ctx context.Context, decision models.RiskDecision) error {
			persisted = decision
			return nil
		},
	}

	svc := NewRiskService(decisions, decimal.NewFromInt(50000))
	decision, err := svc.Check(context.Background(), riskRequest(50001))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Result != models.RiskDeny || decision.ReasonCode != RiskReasonAmountLimit {
		t.Fatalf("unexpected decision: %+v", decision)
	}
	if persisted.Result != models.RiskDeny {
		t.Fatalf("denial must be persisted too: %+v", persisted)
	}
}

func TestRiskCheckAllowsExactlyAtLimit(t *testing.T) {
	svc := NewRiskService(stubRiskStore{}, decimal.NewFromInt(50000))
	decision, err := svc.Check(context.Background(), riskRequest(50000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Result != models.RiskAllow {
		t.Fatalf("amount equal to the limit must pass, got %+v", decision)
	}
}

func TestRiskCheckInsertFailure(t *testing.T) {
	dbErr := errors.New("insert failed")
	decisions := stubRiskStore{
		insertFn: func(ctx context.Context, decision models.RiskDecision) error {
			return dbErr
		},
	}

	svc := NewRiskService(decisions, decimal.NewFromInt(50000))
	if _, err := svc.Check(context.Background(), riskRequest(100)); !errors.Is(err, dbErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
