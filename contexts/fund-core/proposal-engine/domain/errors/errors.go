package errors

import "errors"

var (
	ErrEmptyTitle              = errors.New("proposal title is required")
	ErrInsufficientOptions     = errors.New("proposal needs at least two options")
	ErrDuplicateOptions        = errors.New("proposal options must be distinct")
	ErrNotEligible             = errors.New("creator stake is below the proposal threshold")
	ErrProposalNotFound        = errors.New("proposal not found")
	ErrProposalNotActive       = errors.New("proposal is not active")
	ErrVotingClosed            = errors.New("voting window is closed")
	ErrVotingStillOpen         = errors.New("voting window is still open")
	ErrAlreadyVoted            = errors.New("account has already voted on this proposal")
	ErrAlreadyFinalized        = errors.New("proposal is already finalized")
	ErrInvalidOption           = errors.New("option index is out of range")
	ErrZeroPower               = errors.New("voting power must be positive")
	ErrInsufficientVotingPower = errors.New("voting power exceeds the account's available power")
	ErrConflict                = errors.New("proposal record conflict")
)
