package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	governanceerrors "decentralfund/contexts/fund-core/proposal-engine/domain/errors"
	governancehttp "decentralfund/contexts/fund-core/proposal-engine/transport/http"
)

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	var req governancehttp.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.CreateProposalHandler(r.Context(), req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	resp, err := s.governance.Handler.ListProposalsHandler(r.Context())
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, ok := proposalIDFromPath(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.ProposalHandler(r.Context(), proposalID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	proposalID, ok := proposalIDFromPath(w, r)
	if !ok {
		return
	}
	var req governancehttp.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.VoteHandler(r.Context(), proposalID, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	proposalID, ok := proposalIDFromPath(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.FinalizeHandler(r.Context(), proposalID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	proposalID, ok := proposalIDFromPath(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.ResultsHandler(r.Context(), proposalID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func proposalIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	proposalID, err := strconv.ParseInt(r.PathValue("proposal_id"), 10, 64)
	if err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_proposal_id", "proposal id must be an integer")
		return 0, false
	}
	return proposalID, true
}

func writeGovernanceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, governanceerrors.ErrProposalNotFound):
		writeGovernanceError(w, http.StatusNotFound, "proposal_not_found", err.Error())
	case errors.Is(err, governanceerrors.ErrEmptyTitle):
		writeGovernanceError(w, http.StatusBadRequest, "empty_title", err.Error())
	case errors.Is(err, governanceerrors.ErrInsufficientOptions):
		writeGovernanceError(w, http.StatusBadRequest, "insufficient_options", err.Error())
	case errors.Is(err, governanceerrors.ErrDuplicateOptions):
		writeGovernanceError(w, http.StatusBadRequest, "duplicate_options", err.Error())
	case errors.Is(err, governanceerrors.ErrNotEligible):
		writeGovernanceError(w, http.StatusForbidden, "not_eligible", err.Error())
	case errors.Is(err, governanceerrors.ErrProposalNotActive):
		writeGovernanceError(w, http.StatusConflict, "proposal_not_active", err.Error())
	case errors.Is(err, governanceerrors.ErrVotingClosed):
		writeGovernanceError(w, http.StatusConflict, "voting_closed", err.Error())
	case errors.Is(err, governanceerrors.ErrVotingStillOpen):
		writeGovernanceError(w, http.StatusConflict, "voting_still_open", err.Error())
	case errors.Is(err, governanceerrors.ErrAlreadyVoted):
		writeGovernanceError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, governanceerrors.ErrAlreadyFinalized):
		writeGovernanceError(w, http.StatusConflict, "already_finalized", err.Error())
	case errors.Is(err, governanceerrors.ErrInvalidOption):
		writeGovernanceError(w, http.StatusBadRequest, "invalid_option", err.Error())
	case errors.Is(err, governanceerrors.ErrZeroPower):
		writeGovernanceError(w, http.StatusBadRequest, "zero_power", err.Error())
	case errors.Is(err, governanceerrors.ErrInsufficientVotingPower):
		writeGovernanceError(w, http.StatusConflict, "insufficient_voting_power", err.Error())
	default:
		writeGovernanceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeGovernanceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, governancehttp.ErrorResponse{Code: code, Message: message})
}
