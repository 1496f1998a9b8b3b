package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Projection names. Each named projection owns a durable cursor over the
// global event stream.
const (
	ProjectionAccountSummaries   = "account_summaries"
	ProjectionTransactionHistory = "transaction_history"
)

// ProjectionNames lists every registered projection in the order rebuilds
// run them.
var ProjectionNames = []string{
	ProjectionAccountSummaries,
	ProjectionTransactionHistory,
}

// TransactionType classifies a transaction history entry.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
)

// AccountSummary is the read-optimized view of one account, derived from the
// event log. Version is the global sequence number of the last event folded
// into the row.
type AccountSummary struct {
	AccountID string
	OwnerName string
	Balance   decimal.Decimal
	Currency  string
	Status    AccountStatus
	Version   int64
}

// TransactionEntry is one append-only row of transaction history, keyed by
// the command's transaction id so replays deduplicate.
type TransactionEntry struct {
	TransactionID string
	AccountID     string
	Type          TransactionType
	Amount        decimal.Decimal
	Description   string
	Timestamp     time.Time
}

// ProjectionCursor is the durable bookmark of how far a projection has
// consumed the global event stream. It only ever advances transactionally
// with the corresponding read-model mutation.
type ProjectionCursor struct {
	ProjectionName                    string
	LastProcessedGlobalSequenceNumber int64
	UpdatedAt                         time.Time
}
