package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSummary is the materialized account view row.
type AccountSummary struct {
	AccountID string          `db:"account_id"`
	OwnerName string          `db:"owner_name"`
	Balance   decimal.Decimal `db:"balance"`
	Currency  string          `db:"currency"`
	Status    string          `db:"status"`
	Version   int64           `db:"version"`
}

// TransactionEntry is one transaction history row, keyed by transaction id.
type TransactionEntry struct {
	TransactionID string          `db:"transaction_id"`
	AccountID     string          `db:"account_id"`
	Type          string          `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	Description   string          `db:"description"`
	Timestamp     time.Time       `db:"timestamp"`
}

// ProjectionCursor is the durable cursor row, one per named projection.
type ProjectionCursor struct {
	ProjectionName                    string    `db:"projection_name"`
	LastProcessedGlobalSequenceNumber int64     `db:"last_processed_global_sequence_number"`
	UpdatedAt                         time.Time `db:"updated_at"`
}
