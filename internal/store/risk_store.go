package store

import (
	"context"

	"corebank/internal/models"
)

type RiskStore struct {
	db DB
}

func NewRiskStore(db DB) *RiskStore {
	return &RiskStore{db: db}
}

func (s *RiskStore) Insert(ctx context.Context, decision models.RiskDecision) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO risk_decisions (id, transfer_id, result, reason_code, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, decision.ID, decision.TransferID, decision.Result, decision.ReasonCode, decision.CreatedAt)
	return err
}

func (s *RiskStore) ListByTransfer(ctx context.Context, transferID string) ([]models.RiskDecision, error) {
	var rows []models.RiskDecision
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, transfer_id, result, reason_code, created_at
		FROM risk_decisions
		WHERE transfer_id = $1
		ORDER BY created_at DESC
	`, transferID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
