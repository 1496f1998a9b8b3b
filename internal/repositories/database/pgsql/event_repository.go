package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openledgerhq/bankledger/internal/apperrors"
	"github.com/openledgerhq/bankledger/internal/core/domain"
	portsrepo "github.com/openledgerhq/bankledger/internal/core/ports/repositories"
	"github.com/openledgerhq/bankledger/internal/models"
	"github.com/openledgerhq/bankledger/internal/utils/mapping"
)

const uniqueViolationCode = "23505"

const eventColumns = `event_id, aggregate_id, aggregate_type, event_type, payload, sequence_number, global_sequence_number, timestamp, schema_version`

// PgxEventRepository persists the append-only event log.
type PgxEventRepository struct {
	BaseRepository
}

// newPgxEventRepository creates a new repository for event log data.
func newPgxEventRepository(pool *pgxpool.Pool) portsrepo.EventLogRepository {
	return &PgxEventRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxEventRepository implements portsrepo.EventLogRepository
var _ portsrepo.EventLogRepository = (*PgxEventRepository)(nil)

// AppendEvents appends pending events for one aggregate within a single
// database transaction. The caller supplies the sequence number it observed
// at load time (expectedVersion); if the stored maximum no longer matches,
// the append fails with apperrors.ErrConcurrencyConflict and nothing is
// written. The unique index on (aggregate_id, sequence_number) backstops any
// race the version check does not observe, and the global sequence number is
// assigned by the database identity column at insert time.
func (r *PgxEventRepository) AppendEvents(ctx context.Context, aggregateID, aggregateType string, expectedVersion int64, pending []domain.PendingEvent) (int64, error) {
	if len(pending) == 0 {
		return expectedVersion, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	var currentMax int64
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(sequence_number), 0) FROM events WHERE aggregate_id = $1`,
		aggregateID,
	).Scan(&currentMax)
	if err != nil {
		return 0, fmt.Errorf("failed to read current sequence for aggregate %s: %w", aggregateID, err)
	}

	if currentMax != expectedVersion {
		return 0, fmt.Errorf("%w: aggregate %s is at sequence %d, expected %d",
			apperrors.ErrConcurrencyConflict, aggregateID, currentMax, expectedVersion)
	}

	insertQuery := `
		INSERT INTO events (event_id, aggregate_id, aggregate_type, event_type, payload, sequence_number, timestamp, schema_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING global_sequence_number;
	`

	now := time.Now().UTC()
	lastSequence := expectedVersion
	for _, event := range pending {
		payload, err := domain.EncodePayload(event.Payload)
		if err != nil {
			return 0, err
		}

		lastSequence++
		var globalSequence int64
		err = tx.QueryRow(ctx, insertQuery,
			uuid.NewString(),
			aggregateID,
			aggregateType,
			string(event.EventType),
			payload,
			lastSequence,
			now,
			event.SchemaVersion,
		).Scan(&globalSequence)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
				return 0, fmt.Errorf("%w: concurrent append detected for aggregate %s at sequence %d",
					apperrors.ErrConcurrencyConflict, aggregateID, lastSequence)
			}
			return 0, fmt.Errorf("failed to append event %s for aggregate %s: %w", event.EventType, aggregateID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return lastSequence, nil
}

// GetEvents retrieves an aggregate's events strictly after
// fromSequenceNumber, ascending.
func (r *PgxEventRepository) GetEvents(ctx context.Context, aggregateID string, fromSequenceNumber int64) ([]domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE aggregate_id = $1 AND sequence_number > $2
		ORDER BY sequence_number ASC;
	`
	rows, err := r.Pool.Query(ctx, query, aggregateID, fromSequenceNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for aggregate %s: %w", aggregateID, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetEventsSince retrieves the global projection feed strictly after the
// given global sequence number.
func (r *PgxEventRepository) GetEventsSince(ctx context.Context, globalSequenceNumber int64) ([]domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE global_sequence_number > $1
		ORDER BY global_sequence_number ASC;
	`
	rows, err := r.Pool.Query(ctx, query, globalSequenceNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query events since global sequence %d: %w", globalSequenceNumber, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetEventsUntil retrieves an aggregate's events with timestamps at or
// before the given instant, for point-in-time reconstruction.
func (r *PgxEventRepository) GetEventsUntil(ctx context.Context, aggregateID string, until time.Time) ([]domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE aggregate_id = $1 AND timestamp <= $2
		ORDER BY sequence_number ASC;
	`
	rows, err := r.Pool.Query(ctx, query, aggregateID, until)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for aggregate %s until %s: %w", aggregateID, until, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// CountEvents returns the total number of events in the log.
func (r *PgxEventRepository) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

func scanEvents(rows pgx.Rows) ([]domain.Event, error) {
	var modelEvents []models.Event
	for rows.Next() {
		var m models.Event
		err := rows.Scan(
			&m.EventID,
			&m.AggregateID,
			&m.AggregateType,
			&m.EventType,
			&m.Payload,
			&m.SequenceNumber,
			&m.GlobalSequenceNumber,
			&m.Timestamp,
			&m.SchemaVersion,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		modelEvents = append(modelEvents, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event rows: %w", err)
	}

	return mapping.ToDomainEvents(modelEvents)
}
