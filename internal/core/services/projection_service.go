package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/openledgerhq/bankledger/internal/core/domain"
	portsrepo "github.com/openledgerhq/bankledger/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/bankledger/internal/core/ports/services"
	"github.com/openledgerhq/bankledger/internal/dto"
	"github.com/openledgerhq/bankledger/internal/middleware"
)

// projectionService replays committed events into the read models through
// durable cursors. Delivery is at-least-once: a failed event leaves the
// cursor on the previous event and the next run retries it, which is why
// every read-model mutation is idempotent.
type projectionService struct {
	repo   portsrepo.ProjectionRepository
	events portsrepo.EventLogReader

	// Per-projection locks keep at most one run per name in flight inside
	// this process; concurrent runs would interleave cursor advancement.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewProjectionService creates a new ProjectionSvc.
func NewProjectionService(repo portsrepo.ProjectionRepository, events portsrepo.EventLogReader) portssvc.ProjectionSvc {
	return &projectionService{
		repo:   repo,
		events: events,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Ensure projectionService implements the portssvc.ProjectionSvc interface
var _ portssvc.ProjectionSvc = (*projectionService)(nil)

func (s *projectionService) lockFor(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[name] = lock
	}
	return lock
}

// RunProjection replays new events for one named projection. Each event's
// read-model mutation commits together with the cursor advance before the
// next event is processed, so a crash mid-replay resumes cleanly by calling
// RunProjection again.
func (s *projectionService) RunProjection(ctx context.Context, projectionName string) (int, error) {
	lock := s.lockFor(projectionName)
	lock.Lock()
	defer lock.Unlock()

	return s.runLocked(ctx, projectionName)
}

func (s *projectionService) runLocked(ctx context.Context, projectionName string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("projection", projectionName))

	if err := s.repo.EnsureCursor(ctx, projectionName); err != nil {
		return 0, err
	}

	cursor, err := s.repo.GetCursor(ctx, projectionName)
	if err != nil {
		return 0, err
	}

	events, err := s.events.GetEventsSince(ctx, cursor)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, event := range events {
		if err := s.repo.ProjectEvent(ctx, projectionName, event); err != nil {
			// The cursor still points at the previous event; the next run
			// retries this one.
			logger.Error("Projection run aborted",
				slog.Int64("global_sequence", event.GlobalSequenceNumber),
				slog.String("event_type", string(event.EventType)),
				slog.String("error", err.Error()),
			)
			return processed, err
		}
		processed++
	}

	if processed > 0 {
		logger.Info("Projection caught up", slog.Int("events_processed", processed))
	}
	return processed, nil
}

// RunAll runs every registered projection to catch-up, in order. The first
// failure stops the sweep; earlier projections keep their progress.
func (s *projectionService) RunAll(ctx context.Context) error {
	for _, name := range domain.ProjectionNames {
		if _, err := s.RunProjection(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// Rebuild clears all read models and cursors atomically, then replays the
// entire log into every projection from zero. It holds every projection
// lock for the duration so no incremental run can interleave with the
// rebuild.
func (s *projectionService) Rebuild(ctx context.Context) error {
	for _, name := range domain.ProjectionNames {
		lock := s.lockFor(name)
		lock.Lock()
		defer lock.Unlock()
	}

	if err := s.repo.ResetAll(ctx); err != nil {
		return err
	}

	for _, name := range domain.ProjectionNames {
		if _, err := s.runLocked(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// Status reports the total event count and each projection's lag behind the
// head of the log.
func (s *projectionService) Status(ctx context.Context) (*dto.ProjectionStatusResponse, error) {
	total, err := s.events.CountEvents(ctx)
	if err != nil {
		return nil, err
	}

	cursors, err := s.repo.ListCursors(ctx)
	if err != nil {
		return nil, err
	}

	status := &dto.ProjectionStatusResponse{
		TotalEvents: total,
		Projections: make([]dto.ProjectionStatusEntry, 0, len(cursors)),
	}
	for _, cursor := range cursors {
		lag := total - cursor.LastProcessedGlobalSequenceNumber
		if lag < 0 {
			lag = 0
		}
		status.Projections = append(status.Projections, dto.ProjectionStatusEntry{
			Name:                              cursor.ProjectionName,
			LastProcessedGlobalSequenceNumber: cursor.LastProcessedGlobalSequenceNumber,
			Lag:                               lag,
		})
	}
	return status, nil
}
