package postgresadapter

import (
	"encoding/json"
	"time"

	"decentralfund/contexts/fund-core/manager-registry/domain/entities"
	"decentralfund/contexts/fund-core/manager-registry/ports"
	"decentralfund/internal/shared/outbox"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type managerModel struct {
	Address               string     `gorm:"column:address;primaryKey"`
	Name                  string     `gorm:"column:name"`
	Credentials           string     `gorm:"column:credentials"`
	ExperienceYears       int        `gorm:"column:experience_years"`
	VotesReceived         int64      `gorm:"column:votes_received"`
	TermStart             *time.Time `gorm:"column:term_start"`
	TermEnd               *time.Time `gorm:"column:term_end"`
	IsActive              bool       `gorm:"column:is_active"`
	AssetsUnderManagement int64      `gorm:"column:assets_under_management"`
	PerformanceScore      int64      `gorm:"column:performance_score"`
	RegisteredAt          time.Time  `gorm:"column:registered_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at"`
}

func (managerModel) TableName() string {
	return "registry_managers"
}

func managerModelFromEntity(manager entities.FundManager) managerModel {
	return managerModel{
		Address:               manager.Address,
		Name:                  manager.Name,
		Credentials:           manager.Credentials,
		ExperienceYears:       manager.ExperienceYears,
		VotesReceived:         manager.VotesReceived,
		TermStart:             manager.TermStart,
		TermEnd:               manager.TermEnd,
		IsActive:              manager.IsActive,
		AssetsUnderManagement: manager.AssetsUnderManagement,
		PerformanceScore:      manager.PerformanceScore,
		RegisteredAt:          manager.RegisteredAt.UTC(),
		UpdatedAt:             manager.UpdatedAt.UTC(),
	}
}

func (m managerModel) toEntity() entities.FundManager {
	return entities.FundManager{
		Address:               m.Address,
		Name:                  m.Name,
		Credentials:           m.Credentials,
		ExperienceYears:       m.ExperienceYears,
		VotesReceived:         m.VotesReceived,
		TermStart:             m.TermStart,
		TermEnd:               m.TermEnd,
		IsActive:              m.IsActive,
		AssetsUnderManagement: m.AssetsUnderManagement,
		PerformanceScore:      m.PerformanceScore,
		RegisteredAt:          m.RegisteredAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

type outboxModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "registry_outbox"
}

func outboxModelFromEnvelope(envelope ports.EventEnvelope) (outboxModel, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return outboxModel{}, err
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return outboxModel{
		ID:           envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    createdAt,
	}, nil
}

func (m outboxModel) toMessage() outbox.Message {
	return outbox.Message{
		OutboxID:     m.ID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      m.Payload,
		CreatedAt:    m.CreatedAt,
	}
}
