package services

import (
	"context"
	"fmt"
	"time"

	"github.com/openledgerhq/bankledger/internal/apperrors"
	"github.com/openledgerhq/bankledger/internal/core/domain"
	portsrepo "github.com/openledgerhq/bankledger/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/bankledger/internal/core/ports/services"
	"github.com/openledgerhq/bankledger/internal/dto"
)

const (
	defaultTransactionPageSize = 10
	maxTransactionPageSize     = 100
)

// accountQueryService serves the read side: materialized summaries,
// transaction history pages and raw event streams. It only reads, never
// decides or appends.
type accountQueryService struct {
	projections portsrepo.ReadModelReader
	events      portsrepo.EventLogReader
}

// NewAccountQueryService creates a new AccountQuerySvc.
func NewAccountQueryService(projections portsrepo.ReadModelReader, events portsrepo.EventLogReader) portssvc.AccountQuerySvc {
	return &accountQueryService{projections: projections, events: events}
}

// Ensure accountQueryService implements the portssvc.AccountQuerySvc interface
var _ portssvc.AccountQuerySvc = (*accountQueryService)(nil)

// GetAccount returns the projected account summary.
func (s *accountQueryService) GetAccount(ctx context.Context, accountID string) (*domain.AccountSummary, error) {
	return s.projections.GetAccountSummary(ctx, accountID)
}

// ListTransactions returns a token-paginated page of an account's
// transaction history, ascending by timestamp.
func (s *accountQueryService) ListTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.TransactionEntry, *string, error) {
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}
	if limit > maxTransactionPageSize {
		limit = maxTransactionPageSize
	}
	return s.projections.ListTransactions(ctx, accountID, limit, nextToken)
}

// GetAccountEvents returns the raw event stream for one aggregate.
func (s *accountQueryService) GetAccountEvents(ctx context.Context, accountID string) ([]domain.Event, error) {
	return s.events.GetEvents(ctx, accountID, 0)
}

// GetBalanceAt folds the account's events up to a timestamp and returns the
// reconstructed balance at that point in time.
func (s *accountQueryService) GetBalanceAt(ctx context.Context, accountID string, at time.Time) (*dto.BalanceAtResponse, error) {
	events, err := s.events.GetEventsUntil(ctx, accountID, at)
	if err != nil {
		return nil, err
	}

	account, err := domain.FromHistory(nil, events)
	if err != nil {
		return nil, err
	}
	if account.Status == domain.StatusNew {
		return nil, fmt.Errorf("%w: account %s did not exist at %s", apperrors.ErrNotFound, accountID, at)
	}

	return &dto.BalanceAtResponse{
		AccountID: accountID,
		BalanceAt: account.Balance,
		Timestamp: at,
	}, nil
}
