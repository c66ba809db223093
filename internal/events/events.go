package events

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransferCompleted struct {
	TransferID    string          `json:"transfer_id"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

type TransferFailed struct {
	TransferID string    `json:"transfer_id"`
	Step       string    `json:"step"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
