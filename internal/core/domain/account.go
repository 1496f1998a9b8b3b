package domain

import (
	"errors"
	"fmt"

	"github.com/openledgerhq/bankledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ErrInsufficientFunds is returned when a withdrawal would drive the balance
// below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// AccountStatus is the lifecycle stage of a bank account. Transitions only
// move NEW -> OPEN -> CLOSED, never backwards.
type AccountStatus string

const (
	StatusNew    AccountStatus = "NEW"
	StatusOpen   AccountStatus = "OPEN"
	StatusClosed AccountStatus = "CLOSED"
)

// BankAccount is the aggregate state machine for one account. Decision
// methods are pure: they validate against current state and return pending
// events without mutating anything. Apply must only be invoked after the
// corresponding event is durably appended.
type BankAccount struct {
	ID                      string
	OwnerName               string
	Balance                 decimal.Decimal
	Currency                string
	Status                  AccountStatus
	SequenceNumber          int64
	ProcessedTransactionIDs map[string]struct{}
}

// NewBankAccount returns the empty NEW state at sequence 0.
func NewBankAccount() *BankAccount {
	return &BankAccount{
		Balance:                 decimal.Zero,
		Status:                  StatusNew,
		ProcessedTransactionIDs: make(map[string]struct{}),
	}
}

// CreateAccount decides account creation. Re-invoking on an already open
// account with the same id is an idempotent no-op (nil events, nil error).
func (a *BankAccount) CreateAccount(accountID, ownerName string, initialBalance decimal.Decimal, currency string) ([]PendingEvent, error) {
	if a.Status == StatusOpen && a.ID == accountID {
		// Idempotent retry by account id.
		return nil, nil
	}
	if a.Status != StatusNew {
		return nil, fmt.Errorf("%w: account %s already exists with status %s", apperrors.ErrStateConflict, accountID, a.Status)
	}
	if initialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance cannot be negative", apperrors.ErrValidation)
	}
	if ownerName == "" {
		return nil, fmt.Errorf("%w: owner name is required", apperrors.ErrValidation)
	}
	return []PendingEvent{NewPendingEvent(AccountCreatedPayload{
		AccountID:      accountID,
		OwnerName:      ownerName,
		InitialBalance: initialBalance,
		Currency:       currency,
	})}, nil
}

// Deposit decides a deposit. A previously seen transaction id resolves to a
// no-op rather than an error.
func (a *BankAccount) Deposit(amount decimal.Decimal, description, transactionID string) ([]PendingEvent, error) {
	if a.Status != StatusOpen {
		return nil, fmt.Errorf("%w: account %s is not open", apperrors.ErrStateConflict, a.ID)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit amount must be positive", apperrors.ErrValidation)
	}
	if _, seen := a.ProcessedTransactionIDs[transactionID]; seen {
		return nil, nil
	}
	return []PendingEvent{NewPendingEvent(MoneyDepositedPayload{
		Amount:        amount,
		Description:   description,
		TransactionID: transactionID,
	})}, nil
}

// Withdraw decides a withdrawal. The balance is never allowed to go
// negative.
func (a *BankAccount) Withdraw(amount decimal.Decimal, description, transactionID string) ([]PendingEvent, error) {
	if a.Status != StatusOpen {
		return nil, fmt.Errorf("%w: account %s is not open", apperrors.ErrStateConflict, a.ID)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", apperrors.ErrValidation)
	}
	if _, seen := a.ProcessedTransactionIDs[transactionID]; seen {
		return nil, nil
	}
	if a.Balance.Sub(amount).IsNegative() {
		return nil, fmt.Errorf("%w: balance %s is less than %s", ErrInsufficientFunds, a.Balance, amount)
	}
	return []PendingEvent{NewPendingEvent(MoneyWithdrawnPayload{
		Amount:        amount,
		Description:   description,
		TransactionID: transactionID,
	})}, nil
}

// Close decides account closure. Only an open account with a zero balance
// can be closed.
func (a *BankAccount) Close(reason string) ([]PendingEvent, error) {
	if a.Status != StatusOpen {
		return nil, fmt.Errorf("%w: account %s is not open", apperrors.ErrStateConflict, a.ID)
	}
	if !a.Balance.IsZero() {
		return nil, fmt.Errorf("%w: account balance must be zero to close, got %s", apperrors.ErrStateConflict, a.Balance)
	}
	return []PendingEvent{NewPendingEvent(AccountClosedPayload{Reason: reason})}, nil
}

// Apply folds one event payload into the aggregate state and increments the
// sequence number. An event type outside the closed set fails with
// apperrors.ErrUnknownEventType; it is never silently ignored because it
// would corrupt reconstructed state.
func (a *BankAccount) Apply(payload EventPayload) error {
	switch p := payload.(type) {
	case AccountCreatedPayload:
		a.ID = p.AccountID
		a.OwnerName = p.OwnerName
		a.Balance = p.InitialBalance
		a.Currency = p.Currency
		a.Status = StatusOpen
	case MoneyDepositedPayload:
		a.Balance = a.Balance.Add(p.Amount)
		a.ProcessedTransactionIDs[p.TransactionID] = struct{}{}
	case MoneyWithdrawnPayload:
		a.Balance = a.Balance.Sub(p.Amount)
		a.ProcessedTransactionIDs[p.TransactionID] = struct{}{}
	case AccountClosedPayload:
		a.Status = StatusClosed
	default:
		return fmt.Errorf("%w: %T", apperrors.ErrUnknownEventType, payload)
	}
	a.SequenceNumber++
	return nil
}

// ApplyAll folds a batch of pending events that were just durably appended.
func (a *BankAccount) ApplyAll(pending []PendingEvent) error {
	for _, e := range pending {
		if err := a.Apply(e.Payload); err != nil {
			return err
		}
	}
	return nil
}

// FromHistory reconstructs an aggregate from an optional snapshot state and
// the ordered tail of events appended after it.
func FromHistory(snapshot *AccountState, events []Event) (*BankAccount, error) {
	account := NewBankAccount()
	if snapshot != nil {
		account.restore(*snapshot)
	}
	for _, event := range events {
		if err := account.Apply(event.Payload); err != nil {
			return nil, err
		}
	}
	return account, nil
}
