package repositories

import (
	"context"
	"time"

	"github.com/openledgerhq/bankledger/internal/core/domain"
)

// EventLogReader defines read operations over the append-only event log.
type EventLogReader interface {
	// GetEvents retrieves an aggregate's events with sequence numbers
	// strictly greater than fromSequenceNumber, ascending.
	GetEvents(ctx context.Context, aggregateID string, fromSequenceNumber int64) ([]domain.Event, error)

	// GetEventsSince retrieves events across all aggregates with global
	// sequence numbers strictly greater than globalSequenceNumber, ascending
	// by global sequence number. This is the feed consumed by projections.
	GetEventsSince(ctx context.Context, globalSequenceNumber int64) ([]domain.Event, error)

	// GetEventsUntil retrieves an aggregate's events with timestamps at or
	// before the given instant, ascending by sequence number. Used for
	// point-in-time balance reconstruction.
	GetEventsUntil(ctx context.Context, aggregateID string, until time.Time) ([]domain.Event, error)

	// CountEvents returns the total number of events in the log.
	CountEvents(ctx context.Context) (int64, error)
}

// EventLogWriter defines the append operation of the event log.
type EventLogWriter interface {
	// AppendEvents durably appends pending events for one aggregate in a
	// single atomic unit of work, assigning per-aggregate sequence numbers
	// expectedVersion+1.. and store-owned global sequence numbers. It fails
	// with apperrors.ErrConcurrencyConflict when the aggregate's current
	// maximum sequence number no longer matches expectedVersion, so two
	// concurrent appenders can never both succeed against the same observed
	// version. Returns the new last sequence number.
	AppendEvents(ctx context.Context, aggregateID, aggregateType string, expectedVersion int64, pending []domain.PendingEvent) (int64, error)
}

// EventLogRepository combines read and append access to the event log.
type EventLogRepository interface {
	EventLogReader
	EventLogWriter
}
