package services

import (
	"context"
	"time"

	"github.com/openledgerhq/bankledger/internal/core/domain"
	"github.com/openledgerhq/bankledger/internal/dto"
)

// AccountCommandSvc defines the mutating commands against bank account
// aggregates. Every command follows the same orchestration: load, decide,
// append durably, apply in memory, conditionally snapshot, then trigger
// projection catch-up. Duplicate commands resolve to success without new
// events.
type AccountCommandSvc interface {
	// CreateAccount opens a new account. Retrying with the same account id
	// is an idempotent no-op.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) error

	// Deposit credits an open account, deduplicated by transaction id.
	Deposit(ctx context.Context, accountID string, req dto.DepositRequest) error

	// Withdraw debits an open account; the balance never goes negative.
	Withdraw(ctx context.Context, accountID string, req dto.WithdrawRequest) error

	// CloseAccount closes an open account with a zero balance.
	CloseAccount(ctx context.Context, accountID string, req dto.CloseAccountRequest) error
}

// AccountQuerySvc defines the read-side queries. These only read
// already-materialized data or fold raw events; they never decide or append.
type AccountQuerySvc interface {
	// GetAccount returns the projected account summary.
	GetAccount(ctx context.Context, accountID string) (*domain.AccountSummary, error)

	// ListTransactions returns a token-paginated page of transaction
	// history for an account.
	ListTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.TransactionEntry, *string, error)

	// GetAccountEvents returns the raw per-aggregate event stream.
	GetAccountEvents(ctx context.Context, accountID string) ([]domain.Event, error)

	// GetBalanceAt folds the account's events up to a timestamp and returns
	// the reconstructed balance.
	GetBalanceAt(ctx context.Context, accountID string, at time.Time) (*dto.BalanceAtResponse, error)
}
