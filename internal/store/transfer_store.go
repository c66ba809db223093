package store

import (
	"context"
	"time"

	"corebank/internal/models"
)

type TransferStore struct {
	db DB
}

func NewTransferStore(db DB) *TransferStore {
	return &TransferStore{db: db}
}

func (s *TransferStore) Create(ctx context.Context, transfer models.Transfer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transfers (id, from_account_id, to_account_id, amount, currency, type, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`, transfer.ID, transfer.FromAccountID, transfer.ToAccountID, transfer.Amount,
		transfer.Currency, transfer.Type, transfer.Status, transfer.CreatedAt)
	return err
}

// UpdateStatus persists a single saga transition. Each transition is its own
// write so concurrent readers always see the transfer's real progress.
func (s *TransferStore) UpdateStatus(ctx context.Context, transferID string, status models.TransferStatus, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE transfers
		SET status = $1, updated_at = $2
		WHERE id = $3
	`, status, at, transferID)
	return err
}

func (s *TransferStore) GetByID(ctx context.Context, transferID string) (models.Transfer, error) {
	var row models.Transfer
	err := s.db.GetContext(ctx, &row, `
		SELECT id, from_account_id, to_account_id, amount, currency, type, status, created_at, updated_at
		FROM transfers
		WHERE id = $1
	`, transferID)
	if err != nil {
		return models.Transfer{}, err
	}
	return row, nil
}

func (s *TransferStore) List(ctx context.Context, limit, offset int) ([]models.Transfer, error) {
	var rows []models.Transfer
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, from_account_id, to_account_id, amount, currency, type, status, created_at, updated_at
		FROM transfers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
