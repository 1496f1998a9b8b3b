package services

import (
	"context"

	"github.com/openledgerhq/bankledger/internal/dto"
)

// ProjectionSvc drives the replay of committed events into read models.
// Delivery is at-least-once; the per-event handlers are idempotent.
type ProjectionSvc interface {
	// RunProjection replays new events for one named projection, advancing
	// its durable cursor per event. Returns the number of events processed.
	// A failed event aborts the run with the cursor left on the previous
	// event, so the next run retries it.
	RunProjection(ctx context.Context, projectionName string) (int, error)

	// RunAll runs every registered projection to catch-up.
	RunAll(ctx context.Context) error

	// Rebuild clears all read models and cursors atomically, then replays
	// the entire log into every projection from zero.
	Rebuild(ctx context.Context) error

	// Status reports the total event count and per-projection lag.
	Status(ctx context.Context) (*dto.ProjectionStatusResponse, error)
}
