package repositories

import (
	"context"

	"github.com/openledgerhq/bankledger/internal/core/domain"
)

// ProjectionCursorReader defines read operations over projection cursors.
type ProjectionCursorReader interface {
	// GetCursor returns the last processed global sequence number for a
	// projection, or 0 when the cursor row does not exist yet.
	GetCursor(ctx context.Context, projectionName string) (int64, error)

	// ListCursors returns every projection cursor.
	ListCursors(ctx context.Context) ([]domain.ProjectionCursor, error)
}

// ProjectionWriter defines the mutating operations of the projection engine.
type ProjectionWriter interface {
	// EnsureCursor creates the cursor row at 0 if it is missing.
	EnsureCursor(ctx context.Context, projectionName string) error

	// ProjectEvent applies one event's read-model mutation for the named
	// projection and advances its cursor to the event's global sequence
	// number, both within a single database transaction. Handlers are
	// idempotent against re-delivery. An event type outside the closed set
	// fails with apperrors.ErrUnknownEventType and leaves the cursor
	// unmoved.
	ProjectEvent(ctx context.Context, projectionName string, event domain.Event) error

	// ResetAll clears every read-model row and every cursor in one atomic
	// transaction. The event log is untouched.
	ResetAll(ctx context.Context) error
}

// ReadModelReader defines queries over the materialized read models.
type ReadModelReader interface {
	// GetAccountSummary returns the summary row for an account, or
	// apperrors.ErrNotFound when it has not been projected.
	GetAccountSummary(ctx context.Context, accountID string) (*domain.AccountSummary, error)

	// ListTransactions retrieves a page of transaction history for an
	// account using token-based pagination, ascending by timestamp. It
	// returns the entries and a token for the next page, nil when exhausted.
	ListTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.TransactionEntry, *string, error)
}

// ProjectionRepository combines cursor management, event projection and
// read-model queries.
type ProjectionRepository interface {
	ProjectionCursorReader
	ProjectionWriter
	ReadModelReader
}
