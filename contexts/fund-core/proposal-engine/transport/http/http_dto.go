package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateProposalRequest struct {
	Creator     string   `json:"creator"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
}

type VoteRequest struct {
	Account string `json:"account"`
	Option  int    `json:"option"`
	Power   int64  `json:"power"`
}

type ProposalResponse struct {
	ID               int64      `json:"id"`
	Creator          string     `json:"creator"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Options          []string   `json:"options"`
	OptionVotes      []int64    `json:"option_votes"`
	TotalVotes       int64      `json:"total_votes"`
	TotalVotingPower int64      `json:"total_voting_power"`
	MinimumQuorum    int64      `json:"minimum_quorum"`
	Status           string     `json:"status"`
	WinningOption    int        `json:"winning_option"`
	CreatedAt        time.Time  `json:"created_at"`
	VotingEndAt      time.Time  `json:"voting_end_at"`
	FinalizedAt      *time.Time `json:"finalized_at,omitempty"`
}

type VoteResponse struct {
	ProposalID  int64     `json:"proposal_id"`
	Account     string    `json:"account"`
	OptionIndex int       `json:"option_index"`
	PowerSpent  int64     `json:"power_spent"`
	CastAt      time.Time `json:"cast_at"`
}

type ResultsResponse struct {
	ProposalID       int64  `json:"proposal_id"`
	Status           string `json:"status"`
	WinningOption    int    `json:"winning_option"`
	WinningPower     int64  `json:"winning_power"`
	TotalVotes       int64  `json:"total_votes"`
	TotalVotingPower int64  `json:"total_voting_power"`
	QuorumMet        bool   `json:"quorum_met"`
	IsFinalized      bool   `json:"is_finalized"`
}
