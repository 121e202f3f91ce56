package ports

import (
	"context"
	"time"

	"decentralfund/contexts/fund-core/token-ledger/domain/entities"
	"decentralfund/internal/shared/events"
	"decentralfund/internal/shared/outbox"
)

type Repository interface {
	SaveAccount(ctx context.Context, account entities.Account) error
	// SaveAccounts persists the given accounts as one atomic write, so a
	// transfer never leaves a debited sender without the credited recipient.
	SaveAccounts(ctx context.Context, accounts ...entities.Account) error
	GetAccount(ctx context.Context, address string) (entities.Account, error)
	ListAccounts(ctx context.Context) ([]entities.Account, error)
	TotalSupply(ctx context.Context) (int64, error)

	IsPaused(ctx context.Context) (bool, error)
	SetPaused(ctx context.Context, paused bool, at time.Time) error
}

type EventEnvelope = events.Envelope

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
