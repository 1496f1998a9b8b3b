package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// AccountState is the serializable checkpoint of a BankAccount, persisted as
// the snapshot state blob.
type AccountState struct {
	ID                      string          `json:"id"`
	OwnerName               string          `json:"ownerName"`
	Balance                 decimal.Decimal `json:"balance"`
	Currency                string          `json:"currency"`
	Status                  AccountStatus   `json:"status"`
	SequenceNumber          int64           `json:"sequenceNumber"`
	ProcessedTransactionIDs []string        `json:"processedTransactionIds"`
}

// Snapshot is the latest checkpoint for one aggregate. ThroughSequenceNumber
// never exceeds the aggregate's latest appended sequence number.
type Snapshot struct {
	AggregateID           string
	State                 AccountState
	ThroughSequenceNumber int64
	CreatedAt             time.Time
}

// State captures the current aggregate state for snapshotting.
func (a *BankAccount) State() AccountState {
	txnIDs := make([]string, 0, len(a.ProcessedTransactionIDs))
	for id := range a.ProcessedTransactionIDs {
		txnIDs = append(txnIDs, id)
	}
	sort.Strings(txnIDs)
	return AccountState{
		ID:                      a.ID,
		OwnerName:               a.OwnerName,
		Balance:                 a.Balance,
		Currency:                a.Currency,
		Status:                  a.Status,
		SequenceNumber:          a.SequenceNumber,
		ProcessedTransactionIDs: txnIDs,
	}
}

// restore seeds the aggregate from a snapshot state.
func (a *BankAccount) restore(state AccountState) {
	a.ID = state.ID
	a.OwnerName = state.OwnerName
	a.Balance = state.Balance
	a.Currency = state.Currency
	a.Status = state.Status
	a.SequenceNumber = state.SequenceNumber
	for _, id := range state.ProcessedTransactionIDs {
		a.ProcessedTransactionIDs[id] = struct{}{}
	}
}
