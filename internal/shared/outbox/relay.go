package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"decentralfund/internal/shared/events"
)

// Message is an outbox row persisted inside the same store transaction as the
// state change that produced it.
type Message struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// Source is any module store that can hand out pending outbox rows.
type Source interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]Message, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// Publisher pushes relayed envelopes to the event bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// Relay publishes persisted outbox records to the event bus. Every fund core
// module shares the same outbox shape, so one relay serves them all.
type Relay struct {
	Name      string
	Source    Source
	Publisher Publisher
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending rows and marks each row
// published only after the bus accepted it. It stops on the first failure so
// the next cycle can reprocess remaining rows safely.
func (r Relay) RunOnce(ctx context.Context) error {
	logger := r.logger()
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Source.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list failed",
			"event", "outbox_relay_list_failed",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"relay", r.Name,
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, row := range pending {
		var event events.Envelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("outbox decode failed",
				"event", "outbox_relay_decode_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"relay", r.Name,
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("outbox publish failed",
				"event", "outbox_relay_publish_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"relay", r.Name,
				"outbox_id", row.OutboxID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Source.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("outbox mark published failed",
				"event", "outbox_relay_mark_published_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"relay", r.Name,
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("outbox relay cycle completed",
		"event", "outbox_relay_completed",
		"module", "internal/shared/outbox",
		"layer", "worker",
		"relay", r.Name,
		"published_count", len(pending),
	)
	return nil
}

func (r Relay) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
