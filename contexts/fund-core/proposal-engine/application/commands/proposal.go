package commands

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	application "decentralfund/contexts/fund-core/proposal-engine/application"
	"decentralfund/contexts/fund-core/proposal-engine/domain/entities"
	domainerrors "decentralfund/contexts/fund-core/proposal-engine/domain/errors"
	"decentralfund/contexts/fund-core/proposal-engine/ports"
)

// CreateProposalCommand is the write-model input for proposal creation.
type CreateProposalCommand struct {
	Creator     string
	Title       string
	Description string
	Options     []string
}

// VoteCommand casts a quadratic-weighted ballot.
type VoteCommand struct {
	ProposalID int64
	Account    string
	Option     int
	Power      int64
}

// ProposalUseCase orchestrates the proposal lifecycle: creation gated on
// ledger stake, one immutable ballot per account, and quorum-gated
// finalization with a lowest-index tie-break. The mutex serializes the
// read-modify-write of the tally so concurrent ballots never start from the
// same snapshot.
type ProposalUseCase struct {
	mu sync.Mutex

	Proposals        ports.ProposalRepository
	Ledger           ports.LedgerReader
	Outbox           ports.OutboxWriter
	Clock            ports.Clock
	IDGen            ports.IDGenerator
	VotingDuration   time.Duration
	MinimumQuorum    int64
	MinProposalStake int64
	Logger           *slog.Logger
}

func (uc *ProposalUseCase) CreateProposal(ctx context.Context, cmd CreateProposalCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	title := strings.TrimSpace(cmd.Title)
	creator := strings.TrimSpace(cmd.Creator)
	if title == "" {
		return entities.Proposal{}, domainerrors.ErrEmptyTitle
	}
	if len(cmd.Options) < 2 {
		return entities.Proposal{}, domainerrors.ErrInsufficientOptions
	}
	seen := make(map[string]struct{}, len(cmd.Options))
	options := make([]string, 0, len(cmd.Options))
	for _, option := range cmd.Options {
		label := strings.TrimSpace(option)
		if _, dup := seen[label]; dup {
			return entities.Proposal{}, domainerrors.ErrDuplicateOptions
		}
		seen[label] = struct{}{}
		options = append(options, label)
	}

	balance, err := uc.Ledger.BalanceOf(ctx, creator)
	if err != nil {
		return entities.Proposal{}, err
	}
	if balance < uc.MinProposalStake {
		return entities.Proposal{}, domainerrors.ErrNotEligible
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	proposalID, err := uc.Proposals.NextProposalID(ctx)
	if err != nil {
		return entities.Proposal{}, err
	}

	now := uc.now()
	proposal := entities.Proposal{
		ID:            proposalID,
		Creator:       creator,
		Title:         title,
		Description:   strings.TrimSpace(cmd.Description),
		Options:       options,
		OptionVotes:   make([]int64, len(options)),
		MinimumQuorum: uc.MinimumQuorum,
		Status:        entities.ProposalStatusActive,
		WinningOption: -1,
		CreatedAt:     now,
		VotingEndAt:   now.Add(uc.VotingDuration),
	}
	if err := uc.Proposals.SaveProposal(ctx, proposal); err != nil {
		return entities.Proposal{}, err
	}
	if err := uc.appendProposalEvent(ctx, "governance.proposal_created", proposal, now, map[string]any{
		"proposal_id": proposal.ID,
		"creator":     proposal.Creator,
		"title":       proposal.Title,
	}); err != nil {
		return entities.Proposal{}, err
	}

	logger.Info("proposal created",
		"event", "governance_proposal_created",
		"module", "fund-core/proposal-engine",
		"layer", "application",
		"proposal_id", proposal.ID,
		"creator", creator,
		"options", len(options),
		"voting_end_at", proposal.VotingEndAt,
	)
	return proposal, nil
}

// Vote records a ballot. A call arriving after the voting deadline fails
// with ErrVotingClosed but still finalizes the proposal within the same
// logical operation, matching the source behavior; applyVote and finalize
// remain separate steps so each can be exercised on its own.
func (uc *ProposalUseCase) Vote(ctx context.Context, cmd VoteCommand) (entities.Vote, error) {
	logger := application.ResolveLogger(uc.Logger)
	account := strings.TrimSpace(cmd.Account)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	proposal, err := uc.Proposals.GetProposal(ctx, cmd.ProposalID)
	if err != nil {
		return entities.Vote{}, err
	}
	if proposal.Status != entities.ProposalStatusActive {
		return entities.Vote{}, domainerrors.ErrProposalNotActive
	}

	now := uc.now()
	if now.After(proposal.VotingEndAt) {
		if _, ferr := uc.finalize(ctx, proposal, now); ferr != nil {
			logger.Warn("deadline-crossing vote could not finalize proposal",
				"event", "governance_vote_autofinalize_failed",
				"module", "fund-core/proposal-engine",
				"layer", "application",
				"proposal_id", proposal.ID,
				"error", ferr.Error(),
			)
		}
		return entities.Vote{}, domainerrors.ErrVotingClosed
	}

	if _, voted, err := uc.Proposals.GetVote(ctx, proposal.ID, account); err != nil {
		return entities.Vote{}, err
	} else if voted {
		return entities.Vote{}, domainerrors.ErrAlreadyVoted
	}
	if cmd.Option < 0 || cmd.Option >= len(proposal.Options) {
		return entities.Vote{}, domainerrors.ErrInvalidOption
	}
	if cmd.Power <= 0 {
		return entities.Vote{}, domainerrors.ErrZeroPower
	}
	available, err := uc.Ledger.VotingPowerOf(ctx, account)
	if err != nil {
		return entities.Vote{}, err
	}
	if cmd.Power > available {
		return entities.Vote{}, domainerrors.ErrInsufficientVotingPower
	}

	vote := entities.Vote{
		ProposalID:  proposal.ID,
		Account:     account,
		OptionIndex: cmd.Option,
		PowerSpent:  cmd.Power,
		CastAt:      now,
	}
	proposal.OptionVotes[cmd.Option] += cmd.Power
	proposal.TotalVotes++
	proposal.TotalVotingPower += cmd.Power
	if err := uc.Proposals.SaveBallot(ctx, vote, proposal); err != nil {
		return entities.Vote{}, err
	}
	if err := uc.appendProposalEvent(ctx, "governance.vote_cast", proposal, now, map[string]any{
		"proposal_id": proposal.ID,
		"account":     account,
		"option":      cmd.Option,
		"power":       cmd.Power,
	}); err != nil {
		return entities.Vote{}, err
	}

	logger.Info("vote cast",
		"event", "governance_vote_cast",
		"module", "fund-core/proposal-engine",
		"layer", "application",
		"proposal_id", proposal.ID,
		"account", account,
		"option", cmd.Option,
		"power", cmd.Power,
		"total_voting_power", proposal.TotalVotingPower,
	)
	return vote, nil
}

// Finalize closes an Active proposal once its deadline has passed. It can
// run at most once; repeat calls fail without changing the recorded result.
func (uc *ProposalUseCase) Finalize(ctx context.Context, proposalID int64) (entities.Proposal, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	proposal, err := uc.Proposals.GetProposal(ctx, proposalID)
	if err != nil {
		return entities.Proposal{}, err
	}
	if proposal.Terminal() {
		return entities.Proposal{}, domainerrors.ErrAlreadyFinalized
	}
	now := uc.now()
	if !now.After(proposal.VotingEndAt) {
		return entities.Proposal{}, domainerrors.ErrVotingStillOpen
	}
	return uc.finalize(ctx, proposal, now)
}

func (uc *ProposalUseCase) finalize(
	ctx context.Context,
	proposal entities.Proposal,
	now time.Time,
) (entities.Proposal, error) {
	winner, _ := proposal.LeadingOption()
	if proposal.TotalVotingPower < proposal.MinimumQuorum {
		proposal.Status = entities.ProposalStatusRejected
		proposal.WinningOption = -1
	} else {
		proposal.Status = entities.ProposalStatusPassed
		proposal.WinningOption = winner
	}
	finalizedAt := now.UTC()
	proposal.FinalizedAt = &finalizedAt

	if err := uc.Proposals.SaveProposal(ctx, proposal); err != nil {
		return entities.Proposal{}, err
	}
	if err := uc.appendProposalEvent(ctx, "governance.proposal_finalized", proposal, now, map[string]any{
		"proposal_id":        proposal.ID,
		"winning_option":     proposal.WinningOption,
		"status":             string(proposal.Status),
		"total_votes":        proposal.TotalVotes,
		"total_voting_power": proposal.TotalVotingPower,
		"minimum_quorum":     proposal.MinimumQuorum,
	}); err != nil {
		return entities.Proposal{}, err
	}

	application.ResolveLogger(uc.Logger).Info("proposal finalized",
		"event", "governance_proposal_finalized",
		"module", "fund-core/proposal-engine",
		"layer", "application",
		"proposal_id", proposal.ID,
		"status", string(proposal.Status),
		"winning_option", proposal.WinningOption,
		"total_voting_power", proposal.TotalVotingPower,
	)
	return proposal, nil
}

func (uc *ProposalUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
