package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/openledgerhq/bankledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AggregateTypeBankAccount is the aggregate type recorded on every bank
// account event.
const AggregateTypeBankAccount = "BankAccount"

// SchemaVersion is the current version of the persisted event schema.
const SchemaVersion = 1

// EventType identifies one member of the closed event set.
type EventType string

const (
	EventTypeAccountCreated EventType = "AccountCreated"
	EventTypeMoneyDeposited EventType = "MoneyDeposited"
	EventTypeMoneyWithdrawn EventType = "MoneyWithdrawn"
	EventTypeAccountClosed  EventType = "AccountClosed"
)

// EventPayload is implemented by the typed payload of each event in the
// closed set. Adding an event type requires a corresponding case in
// DecodePayload, BankAccount.Apply and the projection handlers; a missing
// case fails loudly with apperrors.ErrUnknownEventType.
type EventPayload interface {
	EventType() EventType
}

// AccountCreatedPayload opens a new account with its initial balance.
type AccountCreatedPayload struct {
	AccountID      string          `json:"accountId"`
	OwnerName      string          `json:"ownerName"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Currency       string          `json:"currency"`
}

func (AccountCreatedPayload) EventType() EventType { return EventTypeAccountCreated }

// MoneyDepositedPayload credits the account balance. TransactionID is the
// idempotency key used to deduplicate retried commands.
type MoneyDepositedPayload struct {
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	TransactionID string          `json:"transactionId"`
}

func (MoneyDepositedPayload) EventType() EventType { return EventTypeMoneyDeposited }

// MoneyWithdrawnPayload debits the account balance.
type MoneyWithdrawnPayload struct {
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	TransactionID string          `json:"transactionId"`
}

func (MoneyWithdrawnPayload) EventType() EventType { return EventTypeMoneyWithdrawn }

// AccountClosedPayload terminates the account lifecycle.
type AccountClosedPayload struct {
	Reason string `json:"reason"`
}

func (AccountClosedPayload) EventType() EventType { return EventTypeAccountClosed }

// Event is one immutable, durably appended fact about an aggregate.
// SequenceNumber is 1-based and gapless per aggregate; GlobalSequenceNumber
// is assigned by the event log store at append time and drives projection
// order across aggregates.
type Event struct {
	EventID              string
	AggregateID          string
	AggregateType        string
	EventType            EventType
	Payload              EventPayload
	SequenceNumber       int64
	GlobalSequenceNumber int64
	Timestamp            time.Time
	SchemaVersion        int
}

// PendingEvent is an event produced by a command decision that has not yet
// been appended. The event log store assigns its identifiers and sequence
// numbers.
type PendingEvent struct {
	EventType     EventType
	Payload       EventPayload
	SchemaVersion int
}

// NewPendingEvent wraps a payload into a pending event at the current schema
// version.
func NewPendingEvent(payload EventPayload) PendingEvent {
	return PendingEvent{
		EventType:     payload.EventType(),
		Payload:       payload,
		SchemaVersion: SchemaVersion,
	}
}

// EncodePayload serializes an event payload for persistence.
func EncodePayload(payload EventPayload) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", payload.EventType(), err)
	}
	return data, nil
}

// DecodePayload deserializes a persisted payload into its typed form.
// An event type outside the closed set returns apperrors.ErrUnknownEventType.
func DecodePayload(eventType EventType, data []byte) (EventPayload, error) {
	var payload EventPayload
	switch eventType {
	case EventTypeAccountCreated:
		payload = &AccountCreatedPayload{}
	case EventTypeMoneyDeposited:
		payload = &MoneyDepositedPayload{}
	case EventTypeMoneyWithdrawn:
		payload = &MoneyWithdrawnPayload{}
	case EventTypeAccountClosed:
		payload = &AccountClosedPayload{}
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownEventType, eventType)
	}
	if err := json.Unmarshal(data, payload); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", eventType, err)
	}
	switch p := payload.(type) {
	case *AccountCreatedPayload:
		return *p, nil
	case *MoneyDepositedPayload:
		return *p, nil
	case *MoneyWithdrawnPayload:
		return *p, nil
	case *AccountClosedPayload:
		return *p, nil
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownEventType, eventType)
}
