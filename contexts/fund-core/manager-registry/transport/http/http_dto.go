package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterRequest struct {
	Address         string `json:"address"`
	Name            string `json:"name"`
	Credentials     string `json:"credentials"`
	ExperienceYears int    `json:"experience_years"`
}

type PerformanceRequest struct {
	Score int64 `json:"score"`
	AUM   int64 `json:"aum"`
}

type ManagerResponse struct {
	Address               string     `json:"address"`
	Name                  string     `json:"name"`
	Credentials           string     `json:"credentials"`
	ExperienceYears       int        `json:"experience_years"`
	VotesReceived         int64      `json:"votes_received"`
	TermStart             *time.Time `json:"term_start,omitempty"`
	TermEnd               *time.Time `json:"term_end,omitempty"`
	IsActive              bool       `json:"is_active"`
	AssetsUnderManagement int64      `json:"assets_under_management"`
	PerformanceScore      int64      `json:"performance_score"`
	RegisteredAt          time.Time  `json:"registered_at"`
}
