package entities

import "time"

// FundManager is a registered manager candidate. VotesReceived and the term
// window are populated by governance outcomes; registration alone never
// activates a term.
type FundManager struct {
	Address               string
	Name                  string
	Credentials           string
	ExperienceYears       int
	VotesReceived         int64
	TermStart             *time.Time
	TermEnd               *time.Time
	IsActive              bool
	AssetsUnderManagement int64
	PerformanceScore      int64
	RegisteredAt          time.Time
	UpdatedAt             time.Time
}
