package httpadapter

import (
	"context"
	"log/slog"

	"decentralfund/contexts/fund-core/proposal-engine/application/commands"
	"decentralfund/contexts/fund-core/proposal-engine/application/queries"
	"decentralfund/contexts/fund-core/proposal-engine/domain/entities"
	httptransport "decentralfund/contexts/fund-core/proposal-engine/transport/http"
)

type Handler struct {
	Commands *commands.ProposalUseCase
	Queries  queries.ResultsUseCase
	Logger   *slog.Logger
}

func (h Handler) CreateProposalHandler(ctx context.Context, req httptransport.CreateProposalRequest) (httptransport.ProposalResponse, error) {
	proposal, err := h.Commands.CreateProposal(ctx, commands.CreateProposalCommand{
		Creator:     req.Creator,
		Title:       req.Title,
		Description: req.Description,
		Options:     req.Options,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return proposalResponse(proposal), nil
}

func (h Handler) VoteHandler(ctx context.Context, proposalID int64, req httptransport.VoteRequest) (httptransport.VoteResponse, error) {
	vote, err := h.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposalID,
		Account:    req.Account,
		Option:     req.Option,
		Power:      req.Power,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		ProposalID:  vote.ProposalID,
		Account:     vote.Account,
		OptionIndex: vote.OptionIndex,
		PowerSpent:  vote.PowerSpent,
		CastAt:      vote.CastAt,
	}, nil
}

func (h Handler) FinalizeHandler(ctx context.Context, proposalID int64) (httptransport.ProposalResponse, error) {
	proposal, err := h.Commands.Finalize(ctx, proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return proposalResponse(proposal), nil
}

func (h Handler) ProposalHandler(ctx context.Context, proposalID int64) (httptransport.ProposalResponse, error) {
	proposal, err := h.Queries.GetProposal(ctx, proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return proposalResponse(proposal), nil
}

func (h Handler) ListProposalsHandler(ctx context.Context) ([]httptransport.ProposalResponse, error) {
	proposals, err := h.Queries.ListProposals(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.ProposalResponse, 0, len(proposals))
	for _, proposal := range proposals {
		items = append(items, proposalResponse(proposal))
	}
	return items, nil
}

func (h Handler) ResultsHandler(ctx context.Context, proposalID int64) (httptransport.ResultsResponse, error) {
	results, err := h.Queries.Results(ctx, proposalID)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	return httptransport.ResultsResponse{
		ProposalID:       results.ProposalID,
		Status:           string(results.Status),
		WinningOption:    results.WinningOption,
		WinningPower:     results.WinningPower,
		TotalVotes:       results.TotalVotes,
		TotalVotingPower: results.TotalVotingPower,
		QuorumMet:        results.QuorumMet,
		IsFinalized:      results.IsFinalized,
	}, nil
}

func proposalResponse(proposal entities.Proposal) httptransport.ProposalResponse {
	return httptransport.ProposalResponse{
		ID:               proposal.ID,
		Creator:          proposal.Creator,
		Title:            proposal.Title,
		Description:      proposal.Description,
		Options:          proposal.Options,
		OptionVotes:      proposal.OptionVotes,
		TotalVotes:       proposal.TotalVotes,
		TotalVotingPower: proposal.TotalVotingPower,
		MinimumQuorum:    proposal.MinimumQuorum,
		Status:           string(proposal.Status),
		WinningOption:    proposal.WinningOption,
		CreatedAt:        proposal.CreatedAt,
		VotingEndAt:      proposal.VotingEndAt,
		FinalizedAt:      proposal.FinalizedAt,
	}
}
