package dto

import (
	"time"

	"github.com/openledgerhq/bankledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
// The client supplies the account id so retries are idempotent.
type CreateAccountRequest struct {
	AccountID      string          `json:"accountId" binding:"required"`
	OwnerName      string          `json:"ownerName" binding:"required"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Currency       string          `json:"currency" binding:"required,iso4217"`
}

// DepositRequest defines the data needed to deposit money.
// TransactionID is the idempotency key; resubmitting it is a safe no-op.
type DepositRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required,amountgt0"`
	Description   string          `json:"description"`
	TransactionID string          `json:"transactionId" binding:"required"`
}

// WithdrawRequest defines the data needed to withdraw money.
type WithdrawRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required,amountgt0"`
	Description   string          `json:"description"`
	TransactionID string          `json:"transactionId" binding:"required"`
}

// CloseAccountRequest defines the data needed to close an account.
type CloseAccountRequest struct {
	Reason string `json:"reason"`
}

// AccountResponse is the materialized account summary returned to clients.
type AccountResponse struct {
	AccountID string               `json:"accountId"`
	OwnerName string               `json:"ownerName"`
	Balance   decimal.Decimal      `json:"balance"`
	Currency  string               `json:"currency"`
	Status    domain.AccountStatus `json:"status"`
	Version   int64                `json:"version"`
}

// ToAccountResponse converts a domain.AccountSummary to AccountResponse.
func ToAccountResponse(s *domain.AccountSummary) AccountResponse {
	return AccountResponse{
		AccountID: s.AccountID,
		OwnerName: s.OwnerName,
		Balance:   s.Balance,
		Currency:  s.Currency,
		Status:    s.Status,
		Version:   s.Version,
	}
}

// TransactionResponse is one entry of an account's transaction history.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionId"`
	Type          domain.TransactionType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
	Description   string                 `json:"description"`
	Timestamp     time.Time              `json:"timestamp"`
}

// TransactionListResponse is a token-paginated page of transaction history.
type TransactionListResponse struct {
	Items     []TransactionResponse `json:"items"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToTransactionListResponse converts domain entries plus a pagination token.
func ToTransactionListResponse(entries []domain.TransactionEntry, nextToken *string) TransactionListResponse {
	items := make([]TransactionResponse, len(entries))
	for i, e := range entries {
		items[i] = TransactionResponse{
			TransactionID: e.TransactionID,
			Type:          e.Type,
			Amount:        e.Amount,
			Description:   e.Description,
			Timestamp:     e.Timestamp,
		}
	}
	return TransactionListResponse{Items: items, NextToken: nextToken}
}

// EventResponse exposes one persisted event from an aggregate's stream.
type EventResponse struct {
	EventID              string              `json:"eventId"`
	EventType            domain.EventType    `json:"eventType"`
	SequenceNumber       int64               `json:"sequenceNumber"`
	GlobalSequenceNumber int64               `json:"globalSequenceNumber"`
	Payload              domain.EventPayload `json:"payload"`
	Timestamp            time.Time           `json:"timestamp"`
	SchemaVersion        int                 `json:"schemaVersion"`
}

// ToEventResponses converts domain events for the raw event stream query.
func ToEventResponses(events []domain.Event) []EventResponse {
	res := make([]EventResponse, len(events))
	for i, e := range events {
		res[i] = EventResponse{
			EventID:              e.EventID,
			EventType:            e.EventType,
			SequenceNumber:       e.SequenceNumber,
			GlobalSequenceNumber: e.GlobalSequenceNumber,
			Payload:              e.Payload,
			Timestamp:            e.Timestamp,
			SchemaVersion:        e.SchemaVersion,
		}
	}
	return res
}

// BalanceAtResponse is the result of a point-in-time balance reconstruction.
type BalanceAtResponse struct {
	AccountID string          `json:"accountId"`
	BalanceAt decimal.Decimal `json:"balanceAt"`
	Timestamp time.Time       `json:"timestamp"`
}
