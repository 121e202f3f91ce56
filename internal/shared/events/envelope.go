package events

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical event shape emitted by the fund core modules and
// durably recorded through each module's outbox before relay to the bus.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SourceService string          `json:"source_service"`
	OccurredAt    time.Time       `json:"occurred_at"`
	EntityType    string          `json:"entity_type"`
	EntityID      string          `json:"entity_id"`
	PartitionKey  string          `json:"partition_key"`
	SchemaVersion int             `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}

// New builds a v1 envelope with the payload marshalled into Data. The entity
// id doubles as partition key so per-entity ordering survives relay.
func New(
	eventID string,
	eventType string,
	entityType string,
	entityID string,
	occurredAt time.Time,
	payload any,
) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: "decentralfund",
		OccurredAt:    occurredAt.UTC(),
		EntityType:    entityType,
		EntityID:      entityID,
		PartitionKey:  entityID,
		SchemaVersion: 1,
		Data:          data,
	}, nil
}
