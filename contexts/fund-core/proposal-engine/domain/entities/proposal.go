package entities

import "time"

type ProposalStatus string

const (
	ProposalStatusActive   ProposalStatus = "active"
	ProposalStatusPassed   ProposalStatus = "passed"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// Proposal is a governance proposal. Option indices are stable for the life
// of the proposal; MinimumQuorum is snapshotted at creation so later
// parameter changes never retouch an in-flight proposal.
type Proposal struct {
	ID               int64
	Creator          string
	Title            string
	Description      string
	Options          []string
	OptionVotes      []int64
	TotalVotes       int64
	TotalVotingPower int64
	MinimumQuorum    int64
	Status           ProposalStatus
	WinningOption    int
	CreatedAt        time.Time
	VotingEndAt      time.Time
	FinalizedAt      *time.Time
}

// LeadingOption returns the option with maximum accumulated power and that
// power. Ties resolve to the lowest index, which the first-seen-max scan
// yields deterministically.
func (p Proposal) LeadingOption() (int, int64) {
	winner := 0
	var best int64
	for index, power := range p.OptionVotes {
		if power > best {
			winner = index
			best = power
		}
	}
	return winner, best
}

// Terminal reports whether the proposal left the Active state.
func (p Proposal) Terminal() bool {
	return p.Status == ProposalStatusPassed || p.Status == ProposalStatusRejected
}

// Vote is an immutable ballot. PowerSpent is the voting power committed at
// cast time; later balance changes do not alter it.
type Vote struct {
	ProposalID  int64
	Account     string
	OptionIndex int
	PowerSpent  int64
	CastAt      time.Time
}
