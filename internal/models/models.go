package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountActive AccountStatus = "ACTIVE"
	AccountFrozen AccountStatus = "FROZEN"
	AccountClosed AccountStatus = "CLOSED"
)

type Direction string

const (
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
)

type TransferStatus string

const (
	TransferInit         TransferStatus = "INIT"
	TransferRiskChecking TransferStatus = "RISK_CHECKING"
	TransferRiskPassed   TransferStatus = "RISK_PASSED"
	TransferDebitDone    TransferStatus = "DEBIT_DONE"
	TransferCreditDone   TransferStatus = "CREDIT_DONE"
	TransferLedgerPosted TransferStatus = "LEDGER_POSTED"
	TransferSuccess      TransferStatus = "SUCCESS"
	TransferFailed       TransferStatus = "FAILED"
)

type TransferType string

const (
	TransferInternal TransferType = "INTERNAL"
	TransferExternal TransferType = "EXTERNAL"
)

type LedgerAccountType string

const (
	LedgerAsset     LedgerAccountType = "ASSET"
	LedgerLiability LedgerAccountType = "LIABILITY"
	LedgerIncome    LedgerAccountType = "INCOME"
	LedgerExpense   LedgerAccountType = "EXPENSE"
)

type RiskResult string

const (
	RiskAllow RiskResult = "ALLOW"
	RiskDeny  RiskResult = "DENY"
)

type Account struct {
	ID         string          `db:"id" json:"id"`
	CustomerID string          `db:"customer_id" json:"customer_id"`
	AccountNo  string          `db:"account_no" json:"account_no"`
	Currency   string          `db:"currency" json:"currency"`
	Balance    decimal.Decimal `db:"balance" json:"balance"`
	Status     AccountStatus   `db:"status" json:"status"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

type AccountLedgerEntry struct {
	ID            string          `db:"id" json:"id"`
	AccountID     string          `db:"account_id" json:"account_id"`
	TransactionID string          `db:"transaction_id" json:"transaction_id"`
	Direction     Direction       `db:"direction" json:"direction"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	BalanceAfter  decimal.Decimal `db:"balance_after" json:"balance_after"`
	OccurredAt    time.Time       `db:"occurred_at" json:"occurred_at"`
}

type Transfer struct {
	ID            string          `db:"id" json:"id"`
	FromAccountID string          `db:"from_account_id" json:"from_account_id"`
	ToAccountID   string          `db:"to_account_id" json:"to_account_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Currency      string          `db:"currency" json:"currency"`
	Type          TransferType    `db:"type" json:"type"`
	Status        TransferStatus  `db:"status" json:"status"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

type LedgerAccount struct {
	ID   string            `db:"id" json:"id"`
	Code string            `db:"code" json:"code"`
	Name string            `db:"name" json:"name"`
	Type LedgerAccountType `db:"type" json:"type"`
}

type LedgerEntry struct {
	ID              string           `db:"id" json:"id"`
	TransactionID   string           `db:"transaction_id" json:"transaction_id"`
	LedgerAccountID string           `db:"ledger_account_id" json:"ledger_account_id"`
	DebitAmount     *decimal.Decimal `db:"debit_amount" json:"debit_amount,omitempty"`
	CreditAmount    *decimal.Decimal `db:"credit_amount" json:"credit_amount,omitempty"`
	OccurredAt      time.Time        `db:"occurred_at" json:"occurred_at"`
}

type RiskDecision struct {
	ID         string     `db:"id" json:"id"`
	TransferID string     `db:"transfer_id" json:"transfer_id"`
	Result     RiskResult `db:"result" json:"result"`
	ReasonCode string     `db:"reason_code" json:"reason_code"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

type Notification struct {
	ID           string    `db:"id" json:"id"`
	TransferID   string    `db:"transfer_id" json:"transfer_id"`
	CustomerID   string    `db:"customer_id" json:"customer_id"`
	Channel      string    `db:"channel" json:"channel"`
	TemplateCode string    `db:"template_code" json:"template_code"`
	Status       string    `db:"status" json:"status"`
	SentAt       time.Time `db:"sent_at" json:"sent_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
