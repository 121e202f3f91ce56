package ports

import (
	"context"
	"time"

	"decentralfund/contexts/fund-core/manager-registry/domain/entities"
	"decentralfund/internal/shared/events"
	"decentralfund/internal/shared/outbox"
)

type ManagerRepository interface {
	SaveManager(ctx context.Context, manager entities.FundManager) error
	GetManager(ctx context.Context, address string) (entities.FundManager, error)
	ListManagers(ctx context.Context) ([]entities.FundManager, error)
	ListActiveManagers(ctx context.Context) ([]entities.FundManager, error)
}

// StakeVerifier is the read-only ledger view used for the eligibility gate.
type StakeVerifier interface {
	BalanceOf(ctx context.Context, account string) (int64, error)
}

// ElectionTally is the finalized governance view consumed when executing a
// fund-manager election: candidate addresses as ballot options with the
// quadratic voting power each accumulated.
type ElectionTally struct {
	ProposalID int64
	Passed     bool
	Options    []string
	Power      []int64
}

// ElectionReader resolves a governance proposal into an election tally.
// Unknown proposals fail with ErrElectionNotFound.
type ElectionReader interface {
	ElectionTally(ctx context.Context, proposalID int64) (ElectionTally, error)
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
