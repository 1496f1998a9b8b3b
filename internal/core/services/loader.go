package services

import (
	"context"

	"github.com/openledgerhq/bankledger/internal/core/domain"
	portsrepo "github.com/openledgerhq/bankledger/internal/core/ports/repositories"
)

// LoadedAggregate is the result of reconstructing one aggregate.
// CurrentSequence is the last sequence number reflected in Account and must
// be handed back to the event log as the expected version on append.
type LoadedAggregate struct {
	Account          *domain.BankAccount
	CurrentSequence  int64
	SnapshotSequence int64
}

// AggregateLoader composes the snapshot store and the event log into current
// aggregate state.
type AggregateLoader struct {
	events    portsrepo.EventLogReader
	snapshots portsrepo.SnapshotRepository
}

// NewAggregateLoader creates a new AggregateLoader.
func NewAggregateLoader(events portsrepo.EventLogReader, snapshots portsrepo.SnapshotRepository) *AggregateLoader {
	return &AggregateLoader{events: events, snapshots: snapshots}
}

// Load fetches the latest snapshot (or starts from the empty NEW state at
// sequence 0), folds the tail of events appended after it, and returns the
// resulting state. The returned state reflects every event durably appended
// strictly before the read began.
func (l *AggregateLoader) Load(ctx context.Context, accountID string) (*LoadedAggregate, error) {
	snapshot, err := l.snapshots.GetLatestSnapshot(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var snapshotSeq int64
	var state *domain.AccountState
	if snapshot != nil {
		snapshotSeq = snapshot.ThroughSequenceNumber
		state = &snapshot.State
	}

	tail, err := l.events.GetEvents(ctx, accountID, snapshotSeq)
	if err != nil {
		return nil, err
	}

	account, err := domain.FromHistory(state, tail)
	if err != nil {
		return nil, err
	}

	return &LoadedAggregate{
		Account:          account,
		CurrentSequence:  snapshotSeq + int64(len(tail)),
		SnapshotSequence: snapshotSeq,
	}, nil
}
