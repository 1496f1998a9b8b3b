package mapping

import (
	"github.com/openledgerhq/bankledger/internal/core/domain"
	"github.com/openledgerhq/bankledger/internal/models"
)

// ToDomainEvent converts a persisted event row into a domain event,
// decoding its typed payload. An event type outside the closed set fails
// with apperrors.ErrUnknownEventType.
func ToDomainEvent(m models.Event) (domain.Event, error) {
	payload, err := domain.DecodePayload(domain.EventType(m.EventType), m.Payload)
	if err != nil {
		return domain.Event{}, err
	}
	return domain.Event{
		EventID:              m.EventID,
		AggregateID:          m.AggregateID,
		AggregateType:        m.AggregateType,
		EventType:            domain.EventType(m.EventType),
		Payload:              payload,
		SequenceNumber:       m.SequenceNumber,
		GlobalSequenceNumber: m.GlobalSequenceNumber,
		Timestamp:            m.Timestamp,
		SchemaVersion:        m.SchemaVersion,
	}, nil
}

// ToDomainEvents converts a slice of persisted rows, preserving order.
func ToDomainEvents(rows []models.Event) ([]domain.Event, error) {
	events := make([]domain.Event, len(rows))
	for i, row := range rows {
		event, err := ToDomainEvent(row)
		if err != nil {
			return nil, err
		}
		events[i] = event
	}
	return events, nil
}
