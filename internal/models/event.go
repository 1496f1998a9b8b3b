package models

import "time"

// Event is the persisted row of the append-only event log. Payload is the
// JSON-encoded typed payload; its shape is the durable contract.
type Event struct {
	EventID              string    `db:"event_id"`
	AggregateID          string    `db:"aggregate_id"`
	AggregateType        string    `db:"aggregate_type"`
	EventType            string    `db:"event_type"`
	Payload              []byte    `db:"payload"`
	SequenceNumber       int64     `db:"sequence_number"`
	GlobalSequenceNumber int64     `db:"global_sequence_number"`
	Timestamp            time.Time `db:"timestamp"`
	SchemaVersion        int       `db:"schema_version"`
}
