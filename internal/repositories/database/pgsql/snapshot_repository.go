package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openledgerhq/bankledger/internal/core/domain"
	portsrepo "github.com/openledgerhq/bankledger/internal/core/ports/repositories"
	"github.com/openledgerhq/bankledger/internal/models"
	"github.com/openledgerhq/bankledger/internal/utils/mapping"
)

// PgxSnapshotRepository persists the latest state checkpoint per aggregate.
type PgxSnapshotRepository struct {
	BaseRepository
}

// newPgxSnapshotRepository creates a new repository for snapshot data.
func newPgxSnapshotRepository(pool *pgxpool.Pool) portsrepo.SnapshotRepository {
	return &PgxSnapshotRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxSnapshotRepository implements portsrepo.SnapshotRepository
var _ portsrepo.SnapshotRepository = (*PgxSnapshotRepository)(nil)

// GetLatestSnapshot returns the snapshot for an aggregate, or (nil, nil)
// when none has been taken yet.
func (r *PgxSnapshotRepository) GetLatestSnapshot(ctx context.Context, aggregateID string) (*domain.Snapshot, error) {
	query := `
		SELECT snapshot_id, aggregate_id, state_blob, through_sequence_number, created_at
		FROM snapshots
		WHERE aggregate_id = $1;
	`
	var m models.Snapshot
	err := r.Pool.QueryRow(ctx, query, aggregateID).Scan(
		&m.SnapshotID,
		&m.AggregateID,
		&m.StateBlob,
		&m.ThroughSequenceNumber,
		&m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot for aggregate %s: %w", aggregateID, err)
	}

	snapshot, err := mapping.ToDomainSnapshot(m)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// SaveSnapshot upserts the snapshot, replacing any prior checkpoint for the
// same aggregate.
func (r *PgxSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	m, err := mapping.ToModelSnapshot(snapshot, uuid.NewString())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO snapshots (snapshot_id, aggregate_id, state_blob, through_sequence_number)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (aggregate_id)
		DO UPDATE SET
			state_blob = EXCLUDED.state_blob,
			through_sequence_number = EXCLUDED.through_sequence_number,
			created_at = NOW();
	`
	_, err = r.Pool.Exec(ctx, query, m.SnapshotID, m.AggregateID, m.StateBlob, m.ThroughSequenceNumber)
	if err != nil {
		return fmt.Errorf("failed to save snapshot for aggregate %s: %w", snapshot.AggregateID, err)
	}
	return nil
}
