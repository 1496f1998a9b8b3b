package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openledgerhq/bankledger/internal/apperrors"
	"github.com/openledgerhq/bankledger/internal/core/domain"
	portsrepo "github.com/openledgerhq/bankledger/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/bankledger/internal/core/ports/services"
	"github.com/openledgerhq/bankledger/internal/dto"
	"github.com/openledgerhq/bankledger/internal/middleware"
)

// maxAppendAttempts bounds the load-decide-append retry cycle on
// concurrency conflicts before the conflict is surfaced to the caller.
const maxAppendAttempts = 3

// accountCommandService orchestrates mutating commands: load, decide, append
// durably, apply in memory, conditionally snapshot, trigger projection
// catch-up. The append must complete durably before a snapshot is taken or
// success is reported.
type accountCommandService struct {
	loader           *AggregateLoader
	events           portsrepo.EventLogWriter
	snapshots        portsrepo.SnapshotRepository
	projections      portssvc.ProjectionSvc
	snapshotInterval int64
}

// NewAccountCommandService creates a new AccountCommandSvc.
// snapshotInterval is the number of events since the last snapshot that
// triggers a new one.
func NewAccountCommandService(
	loader *AggregateLoader,
	events portsrepo.EventLogWriter,
	snapshots portsrepo.SnapshotRepository,
	projections portssvc.ProjectionSvc,
	snapshotInterval int64,
) portssvc.AccountCommandSvc {
	return &accountCommandService{
		loader:           loader,
		events:           events,
		snapshots:        snapshots,
		projections:      projections,
		snapshotInterval: snapshotInterval,
	}
}

// Ensure accountCommandService implements the portssvc.AccountCommandSvc interface
var _ portssvc.AccountCommandSvc = (*accountCommandService)(nil)

// CreateAccount opens a new account. A retry with the same account id
// against an already open account resolves to success with no new events.
func (s *accountCommandService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) error {
	return s.execute(ctx, req.AccountID, func(account *domain.BankAccount) ([]domain.PendingEvent, error) {
		return account.CreateAccount(req.AccountID, req.OwnerName, req.InitialBalance, req.Currency)
	})
}

// Deposit credits an open account. Resubmitting a processed transaction id
// is a no-op.
func (s *accountCommandService) Deposit(ctx context.Context, accountID string, req dto.DepositRequest) error {
	return s.execute(ctx, accountID, func(account *domain.BankAccount) ([]domain.PendingEvent, error) {
		if account.Status == domain.StatusNew {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return account.Deposit(req.Amount, req.Description, req.TransactionID)
	})
}

// Withdraw debits an open account; overdrafts are rejected before any event
// is produced.
func (s *accountCommandService) Withdraw(ctx context.Context, accountID string, req dto.WithdrawRequest) error {
	return s.execute(ctx, accountID, func(account *domain.BankAccount) ([]domain.PendingEvent, error) {
		if account.Status == domain.StatusNew {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return account.Withdraw(req.Amount, req.Description, req.TransactionID)
	})
}

// CloseAccount closes an open account with a zero balance.
func (s *accountCommandService) CloseAccount(ctx context.Context, accountID string, req dto.CloseAccountRequest) error {
	return s.execute(ctx, accountID, func(account *domain.BankAccount) ([]domain.PendingEvent, error) {
		if account.Status == domain.StatusNew {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return account.Close(req.Reason)
	})
}

// execute runs one load-decide-append cycle, retrying the whole cycle on a
// concurrency conflict. Decision errors return before anything is written;
// once the append has committed, snapshot and projection failures are logged
// but do not fail the command.
func (s *accountCommandService) execute(ctx context.Context, accountID string, decide func(*domain.BankAccount) ([]domain.PendingEvent, error)) error {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("account_id", accountID))

	for attempt := 1; attempt <= maxAppendAttempts; attempt++ {
		loaded, err := s.loader.Load(ctx, accountID)
		if err != nil {
			return err
		}

		pending, err := decide(loaded.Account)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			// Duplicate command: resolves to success with zero new events.
			logger.Info("Command resolved as idempotent no-op")
			return nil
		}

		lastSeq, err := s.events.AppendEvents(ctx, accountID, domain.AggregateTypeBankAccount, loaded.CurrentSequence, pending)
		if errors.Is(err, apperrors.ErrConcurrencyConflict) {
			logger.Warn("Append raced with a concurrent writer, retrying",
				slog.Int("attempt", attempt),
				slog.Int64("expected_version", loaded.CurrentSequence),
			)
			continue
		}
		if err != nil {
			return err
		}

		if err := loaded.Account.ApplyAll(pending); err != nil {
			// The events are durable; a failing in-memory fold indicates a
			// schema mismatch, not a failed command.
			return err
		}

		s.maybeSnapshot(ctx, logger, accountID, loaded, lastSeq)
		s.catchUpProjections(ctx, logger)
		return nil
	}

	return fmt.Errorf("%w: gave up after %d attempts for aggregate %s", apperrors.ErrConcurrencyConflict, maxAppendAttempts, accountID)
}

// maybeSnapshot checkpoints the aggregate once enough events have
// accumulated since the last snapshot. The threshold check (rather than an
// exact modulo) still fires when a single command pushes the sequence past
// the boundary.
func (s *accountCommandService) maybeSnapshot(ctx context.Context, logger *slog.Logger, accountID string, loaded *LoadedAggregate, lastSeq int64) {
	if s.snapshotInterval <= 0 || lastSeq-loaded.SnapshotSequence < s.snapshotInterval {
		return
	}

	snapshot := domain.Snapshot{
		AggregateID:           accountID,
		State:                 loaded.Account.State(),
		ThroughSequenceNumber: lastSeq,
		CreatedAt:             time.Now().UTC(),
	}
	if err := s.snapshots.SaveSnapshot(ctx, snapshot); err != nil {
		// The events are already durable; the next qualifying command will
		// retry the checkpoint.
		logger.Warn("Failed to save snapshot", slog.Int64("through_sequence", lastSeq), slog.String("error", err.Error()))
		return
	}
	logger.Info("Saved snapshot", slog.Int64("through_sequence", lastSeq))
}

// catchUpProjections pulls newly appended events into the read models.
// Failures leave the cursors behind; the next run resumes from there.
func (s *accountCommandService) catchUpProjections(ctx context.Context, logger *slog.Logger) {
	if err := s.projections.RunAll(ctx); err != nil {
		logger.Warn("Projection catch-up failed", slog.String("error", err.Error()))
	}
}
