package ports

import (
	"context"
	"time"

	"decentralfund/contexts/fund-core/proposal-engine/domain/entities"
	"decentralfund/internal/shared/events"
	"decentralfund/internal/shared/outbox"
)

type ProposalRepository interface {
	NextProposalID(ctx context.Context) (int64, error)
	SaveProposal(ctx context.Context, proposal entities.Proposal) error
	GetProposal(ctx context.Context, proposalID int64) (entities.Proposal, error)
	ListProposals(ctx context.Context) ([]entities.Proposal, error)
	ListActiveDueBefore(ctx context.Context, deadline time.Time, limit int) ([]entities.Proposal, error)

	// SaveBallot persists the vote record and the updated tally as one
	// atomic write; a duplicate ballot fails with ErrAlreadyVoted and
	// leaves the tally untouched.
	SaveBallot(ctx context.Context, vote entities.Vote, proposal entities.Proposal) error
	GetVote(ctx context.Context, proposalID int64, account string) (entities.Vote, bool, error)
	ListVotesByProposal(ctx context.Context, proposalID int64) ([]entities.Vote, error)
}

// LedgerReader is the read-only view of the token ledger this module is
// allowed to consume.
type LedgerReader interface {
	BalanceOf(ctx context.Context, account string) (int64, error)
	VotingPowerOf(ctx context.Context, account string) (int64, error)
}

type ProposalResults struct {
	ProposalID       int64
	Status           entities.ProposalStatus
	WinningOption    int
	WinningPower     int64
	TotalVotes       int64
	TotalVotingPower int64
	QuorumMet        bool
	IsFinalized      bool
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
