package repositories

import (
	"context"

	"github.com/openledgerhq/bankledger/internal/core/domain"
)

// SnapshotRepository persists the latest state checkpoint per aggregate.
type SnapshotRepository interface {
	// GetLatestSnapshot returns the snapshot for an aggregate, or (nil, nil)
	// when none exists yet.
	GetLatestSnapshot(ctx context.Context, aggregateID string) (*domain.Snapshot, error)

	// SaveSnapshot upserts the snapshot, replacing any prior one for the
	// same aggregate. Cadence is owned by the orchestration layer.
	SaveSnapshot(ctx context.Context, snapshot domain.Snapshot) error
}
