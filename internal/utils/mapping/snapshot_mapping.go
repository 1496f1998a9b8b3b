package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/openledgerhq/bankledger/internal/core/domain"
	"github.com/openledgerhq/bankledger/internal/models"
)

// ToModelSnapshot converts a domain snapshot into its persisted row,
// serializing the state blob.
func ToModelSnapshot(d domain.Snapshot, snapshotID string) (models.Snapshot, error) {
	blob, err := json.Marshal(d.State)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to encode snapshot state for aggregate %s: %w", d.AggregateID, err)
	}
	return models.Snapshot{
		SnapshotID:            snapshotID,
		AggregateID:           d.AggregateID,
		StateBlob:             blob,
		ThroughSequenceNumber: d.ThroughSequenceNumber,
		CreatedAt:             d.CreatedAt,
	}, nil
}

// ToDomainSnapshot converts a persisted snapshot row back into its domain
// form, deserializing the state blob.
func ToDomainSnapshot(m models.Snapshot) (domain.Snapshot, error) {
	var state domain.AccountState
	if err := json.Unmarshal(m.StateBlob, &state); err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to decode snapshot state for aggregate %s: %w", m.AggregateID, err)
	}
	return domain.Snapshot{
		AggregateID:           m.AggregateID,
		State:                 state,
		ThroughSequenceNumber: m.ThroughSequenceNumber,
		CreatedAt:             m.CreatedAt,
	}, nil
}
