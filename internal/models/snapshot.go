package models

import "time"

// Snapshot is the persisted checkpoint row, one per aggregate.
type Snapshot struct {
	SnapshotID            string    `db:"snapshot_id"`
	AggregateID           string    `db:"aggregate_id"`
	StateBlob             []byte    `db:"state_blob"`
	ThroughSequenceNumber int64     `db:"through_sequence_number"`
	CreatedAt             time.Time `db:"created_at"`
}
