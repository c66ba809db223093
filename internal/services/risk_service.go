package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"corebank/internal/models"
)

type RiskStore interface {
	Insert(ctx context.Context, decision models.RiskDecision) error
	ListByTransfer(ctx context.Context, transferID string) ([]models.RiskDecision, error)
}

type RiskCheckRequest struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Currency      string
	TransferID    string
}

const (
	RiskReasonOK          = "OK"
	RiskReasonAmountLimit = "AMOUNT_LIMIT"
)

// RiskService applies the single-transaction amount ceiling. The decision
// itself is deterministic, but every invocation also persists a decision row
// as the audit trail, denials included.
type RiskService struct {
	decisions   RiskStore
	singleLimit decimal.Decimal
}

func NewRiskService(decisions RiskStore, singleLimit decimal.Decimal) *RiskService {
	return &RiskService{decisions: decisions, singleLimit: singleLimit}
}

func (s *RiskService) Check(ctx context.Context, req RiskCheckRequest) (models.RiskDecision, error) {
	decision := models.RiskDecision{
		ID:         uuid.NewString(),
		TransferID: req.TransferID,
		Result:     models.RiskAllow,
		ReasonCode: RiskReasonOK,
		CreatedAt:  time.Now().UTC(),
	}
	if req.Amount.GreaterThan(s.singleLimit) {
		decision.Result = models.RiskDeny
		decision.ReasonCode = RiskReasonAmountLimit
		log.Printf("risk denied: transfer=%s amount=%s limit=%s", req.TransferID, req.Amount, s.singleLimit)
	}
	if err := s.decisions.Insert(ctx, decision); err != nil {
		return models.RiskDecision{}, err
	}
	return decision, nil
}

func (s *RiskService) GetDecisions(ctx context.Context, transferID string) ([]models.RiskDecision, error) {
	return s.decisions.ListByTransfer(ctx, transferID)
}
