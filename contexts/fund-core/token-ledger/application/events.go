package application

import (
	"time"

	"decentralfund/contexts/fund-core/token-ledger/ports"
	"decentralfund/internal/shared/events"
)

func newLedgerEnvelope(
	eventID string,
	eventType string,
	account string,
	occurredAt time.Time,
	payload map[string]any,
) (ports.EventEnvelope, error) {
	return events.New(eventID, eventType, "account", account, occurredAt, payload)
}
