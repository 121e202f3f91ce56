package queries

import (
	"context"

	"decentralfund/contexts/fund-core/proposal-engine/domain/entities"
	"decentralfund/contexts/fund-core/proposal-engine/ports"
)

type ResultsUseCase struct {
	Proposals ports.ProposalRepository
}

// Results reports the current standing of a proposal. For Active proposals
// the winning slot and quorum flag are a live preview, not a recorded
// outcome; the recorded outcome exists only once finalization has run.
func (uc ResultsUseCase) Results(ctx context.Context, proposalID int64) (ports.ProposalResults, error) {
	proposal, err := uc.Proposals.GetProposal(ctx, proposalID)
	if err != nil {
		return ports.ProposalResults{}, err
	}
	results := ports.ProposalResults{
		ProposalID:       proposal.ID,
		Status:           proposal.Status,
		WinningOption:    proposal.WinningOption,
		TotalVotes:       proposal.TotalVotes,
		TotalVotingPower: proposal.TotalVotingPower,
		QuorumMet:        proposal.TotalVotingPower >= proposal.MinimumQuorum,
		IsFinalized:      proposal.Terminal(),
	}
	if winner, power := proposal.LeadingOption(); !proposal.Terminal() {
		results.WinningOption = winner
		results.WinningPower = power
	} else if proposal.WinningOption >= 0 {
		results.WinningPower = proposal.OptionVotes[proposal.WinningOption]
	}
	return results, nil
}

func (uc ResultsUseCase) GetProposal(ctx context.Context, proposalID int64) (entities.Proposal, error) {
	return uc.Proposals.GetProposal(ctx, proposalID)
}

func (uc ResultsUseCase) ListProposals(ctx context.Context) ([]entities.Proposal, error) {
	return uc.Proposals.ListProposals(ctx)
}

func (uc ResultsUseCase) ListVotes(ctx context.Context, proposalID int64) ([]entities.Vote, error) {
	if _, err := uc.Proposals.GetProposal(ctx, proposalID); err != nil {
		return nil, err
	}
	return uc.Proposals.ListVotesByProposal(ctx, proposalID)
}
