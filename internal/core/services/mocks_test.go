package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/openledgerhq/bankledger/internal/core/domain"
	"github.com/openledgerhq/bankledger/internal/dto"
)

// --- Mock event log repository (based on EventLogRepository usage) ---

type MockEventRepository struct {
	mock.Mock
	GetEventsFn      func(ctx context.Context, aggregateID string, fromSequenceNumber int64) ([]domain.Event, error)
	GetEventsSinceFn func(ctx context.Context, globalSequenceNumber int64) ([]domain.Event, error)
	GetEventsUntilFn func(ctx context.Context, aggregateID string, until time.Time) ([]domain.Event, error)
	CountEventsFn    func(ctx context.Context) (int64, error)
	AppendEventsFn   func(ctx context.Context, aggregateID, aggregateType string, expectedVersion int64, pending []domain.PendingEvent) (int64, error)
}

func (m *MockEventRepository) GetEvents(ctx context.Context, aggregateID string, fromSequenceNumber int64) ([]domain.Event, error) {
	if m.GetEventsFn != nil {
		return m.GetEventsFn(ctx, aggregateID, fromSequenceNumber)
	}
	args := m.Called(ctx, aggregateID, fromSequenceNumber)
	var events []domain.Event
	if args.Get(0) != nil {
		events = args.Get(0).([]domain.Event)
	}
	return events, args.Error(1)
}

func (m *MockEventRepository) GetEventsSince(ctx context.Context, globalSequenceNumber int64) ([]domain.Event, error) {
	if m.GetEventsSinceFn != nil {
		return m.GetEventsSinceFn(ctx, globalSequenceNumber)
	}
	args := m.Called(ctx, globalSequenceNumber)
	var events []domain.Event
	if args.Get(0) != nil {
		events = args.Get(0).([]domain.Event)
	}
	return events, args.Error(1)
}

func (m *MockEventRepository) GetEventsUntil(ctx context.Context, aggregateID string, until time.Time) ([]domain.Event, error) {
	if m.GetEventsUntilFn != nil {
		return m.GetEventsUntilFn(ctx, aggregateID, until)
	}
	args := m.Called(ctx, aggregateID, until)
	var events []domain.Event
	if args.Get(0) != nil {
		events = args.Get(0).([]domain.Event)
	}
	return events, args.Error(1)
}

func (m *MockEventRepository) CountEvents(ctx context.Context) (int64, error) {
	if m.CountEventsFn != nil {
		return m.CountEventsFn(ctx)
	}
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) AppendEvents(ctx context.Context, aggregateID, aggregateType string, expectedVersion int64, pending []domain.PendingEvent) (int64, error) {
	if m.AppendEventsFn != nil {
		return m.AppendEventsFn(ctx, aggregateID, aggregateType, expectedVersion, pending)
	}
	args := m.Called(ctx, aggregateID, aggregateType, expectedVersion, pending)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock snapshot repository ---

type MockSnapshotRepository struct {
	mock.Mock
	GetLatestSnapshotFn func(ctx context.Context, aggregateID string) (*domain.Snapshot, error)
	SaveSnapshotFn      func(ctx context.Context, snapshot domain.Snapshot) error
}

func (m *MockSnapshotRepository) GetLatestSnapshot(ctx context.Context, aggregateID string) (*domain.Snapshot, error) {
	if m.GetLatestSnapshotFn != nil {
		return m.GetLatestSnapshotFn(ctx, aggregateID)
	}
	args := m.Called(ctx, aggregateID)
	var snapshot *domain.Snapshot
	if args.Get(0) != nil {
		snapshot = args.Get(0).(*domain.Snapshot)
	}
	return snapshot, args.Error(1)
}

func (m *MockSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	if m.SaveSnapshotFn != nil {
		return m.SaveSnapshotFn(ctx, snapshot)
	}
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// --- Mock projection repository ---

type MockProjectionRepository struct {
	mock.Mock
	GetCursorFn         func(ctx context.Context, projectionName string) (int64, error)
	ListCursorsFn       func(ctx context.Context) ([]domain.ProjectionCursor, error)
	EnsureCursorFn      func(ctx context.Context, projectionName string) error
	ProjectEventFn      func(ctx context.Context, projectionName string, event domain.Event) error
	ResetAllFn          func(ctx context.Context) error
	GetAccountSummaryFn func(ctx context.Context, accountID string) (*domain.AccountSummary, error)
	ListTransactionsFn  func(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.TransactionEntry, *string, error)
}

func (m *MockProjectionRepository) GetCursor(ctx context.Context, projectionName string) (int64, error) {
	if m.GetCursorFn != nil {
		return m.GetCursorFn(ctx, projectionName)
	}
	args := m.Called(ctx, projectionName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectionRepository) ListCursors(ctx context.Context) ([]domain.ProjectionCursor, error) {
	if m.ListCursorsFn != nil {
		return m.ListCursorsFn(ctx)
	}
	args := m.Called(ctx)
	var cursors []domain.ProjectionCursor
	if args.Get(0) != nil {
		cursors = args.Get(0).([]domain.ProjectionCursor)
	}
	return cursors, args.Error(1)
}

func (m *MockProjectionRepository) EnsureCursor(ctx context.Context, projectionName string) error {
	if m.EnsureCursorFn != nil {
		return m.EnsureCursorFn(ctx, projectionName)
	}
	args := m.Called(ctx, projectionName)
	return args.Error(0)
}

func (m *MockProjectionRepository) ProjectEvent(ctx context.Context, projectionName string, event domain.Event) error {
	if m.ProjectEventFn != nil {
		return m.ProjectEventFn(ctx, projectionName, event)
	}
	args := m.Called(ctx, projectionName, event)
	return args.Error(0)
}

func (m *MockProjectionRepository) ResetAll(ctx context.Context) error {
	if m.ResetAllFn != nil {
		return m.ResetAllFn(ctx)
	}
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProjectionRepository) GetAccountSummary(ctx context.Context, accountID string) (*domain.AccountSummary, error) {
	if m.GetAccountSummaryFn != nil {
		return m.GetAccountSummaryFn(ctx, accountID)
	}
	args := m.Called(ctx, accountID)
	var summary *domain.AccountSummary
	if args.Get(0) != nil {
		summary = args.Get(0).(*domain.AccountSummary)
	}
	return summary, args.Error(1)
}

func (m *MockProjectionRepository) ListTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.TransactionEntry, *string, error) {
	if m.ListTransactionsFn != nil {
		return m.ListTransactionsFn(ctx, accountID, limit, nextToken)
	}
	args := m.Called(ctx, accountID, limit, nextToken)
	var entries []domain.TransactionEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.TransactionEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

// --- Mock projection service ---

type MockProjectionSvc struct {
	mock.Mock
	RunProjectionFn func(ctx context.Context, projectionName string) (int, error)
	RunAllFn        func(ctx context.Context) error
	RebuildFn       func(ctx context.Context) error
	StatusFn        func(ctx context.Context) (*dto.ProjectionStatusResponse, error)
}

func (m *MockProjectionSvc) RunProjection(ctx context.Context, projectionName string) (int, error) {
	if m.RunProjectionFn != nil {
		return m.RunProjectionFn(ctx, projectionName)
	}
	args := m.Called(ctx, projectionName)
	return args.Int(0), args.Error(1)
}

func (m *MockProjectionSvc) RunAll(ctx context.Context) error {
	if m.RunAllFn != nil {
		return m.RunAllFn(ctx)
	}
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProjectionSvc) Rebuild(ctx context.Context) error {
	if m.RebuildFn != nil {
		return m.RebuildFn(ctx)
	}
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProjectionSvc) Status(ctx context.Context) (*dto.ProjectionStatusResponse, error) {
	if m.StatusFn != nil {
		return m.StatusFn(ctx)
	}
	args := m.Called(ctx)
	var status *dto.ProjectionStatusResponse
	if args.Get(0) != nil {
		status = args.Get(0).(*dto.ProjectionStatusResponse)
	}
	return status, args.Error(1)
}
