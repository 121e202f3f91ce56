package postgresadapter

import (
	"encoding/json"
	"time"

	"decentralfund/contexts/fund-core/token-ledger/domain/entities"
	"decentralfund/contexts/fund-core/token-ledger/ports"
	"decentralfund/internal/shared/outbox"
)

const (
	ledgerStateRowID = 1

	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type accountModel struct {
	Address     string    `gorm:"column:address;primaryKey"`
	Balance     int64     `gorm:"column:balance"`
	VotingPower int64     `gorm:"column:voting_power"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string {
	return "ledger_accounts"
}

func accountModelFromEntity(account entities.Account) accountModel {
	return accountModel{
		Address:     account.Address,
		Balance:     account.Balance,
		VotingPower: account.VotingPower,
		CreatedAt:   account.CreatedAt.UTC(),
		UpdatedAt:   account.UpdatedAt.UTC(),
	}
}

func (m accountModel) toEntity() entities.Account {
	return entities.Account{
		Address:     m.Address,
		Balance:     m.Balance,
		VotingPower: m.VotingPower,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type ledgerStateModel struct {
	ID        int       `gorm:"column:id;primaryKey"`
	Paused    bool      `gorm:"column:paused"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ledgerStateModel) TableName() string {
	return "ledger_state"
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
	return "ledger_outbox"
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
