package errors

import "errors"

var (
	ErrInvalidAddress    = errors.New("manager address must not be empty")
	ErrEmptyName         = errors.New("manager name must not be empty")
	ErrNoExperience      = errors.New("manager must declare at least one year of experience")
	ErrNotEligible       = errors.New("manager stake below required minimum")
	ErrManagerNotFound   = errors.New("fund manager not found")
	ErrElectionNotFound  = errors.New("election proposal not found")
	ErrElectionNotPassed = errors.New("election proposal has not passed")
	ErrNoCandidates      = errors.New("no registered candidate received votes")
	ErrConflict          = errors.New("conflicting manager state")
)
