// Package eventstore durably records every event relayed onto the bus,
// keyed by event id so redelivery after a relay retry stays idempotent.
package eventstore

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"decentralfund/internal/shared/events"
)

type archivedEventModel struct {
	EventID       string    `gorm:"column:event_id;primaryKey"`
	EventType     string    `gorm:"column:event_type;index"`
	SourceService string    `gorm:"column:source_service"`
	EntityType    string    `gorm:"column:entity_type"`
	EntityID      string    `gorm:"column:entity_id;index"`
	PartitionKey  string    `gorm:"column:partition_key"`
	SchemaVersion int       `gorm:"column:schema_version"`
	OccurredAt    time.Time `gorm:"column:occurred_at"`
	ArchivedAt    time.Time `gorm:"column:archived_at"`
	Payload       []byte    `gorm:"column:payload;type:jsonb"`
}

func (archivedEventModel) TableName() string {
	return "event_archive"
}

// Models returns the prototypes for gorm auto-migration.
func Models() []any {
	return []any{&archivedEventModel{}}
}

type Archive struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewArchive(db *gorm.DB, logger *slog.Logger) *Archive {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archive{
		db:     db,
		logger: logger,
	}
}

// HandleEvent records a bus delivery. A redelivered event id is a no-op.
func (a *Archive) HandleEvent(ctx context.Context, event events.Envelope) error {
	row := archivedEventModel{
		EventID:       event.EventID,
		EventType:     event.EventType,
		SourceService: event.SourceService,
		EntityType:    event.EntityType,
		EntityID:      event.EntityID,
		PartitionKey:  event.PartitionKey,
		SchemaVersion: event.SchemaVersion,
		OccurredAt:    event.OccurredAt,
		ArchivedAt:    time.Now().UTC(),
		Payload:       event.Data,
	}
	create := a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		a.logger.Error("event archive write failed",
			"event", "eventstore_archive_failed",
			"module", "internal/platform/eventstore",
			"layer", "platform",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", create.Error.Error(),
		)
		return create.Error
	}
	return nil
}
