package postgresadapter

import (
	"encoding/json"
	"time"

	"decentralfund/contexts/fund-core/proposal-engine/domain/entities"
	"decentralfund/contexts/fund-core/proposal-engine/ports"
	"decentralfund/internal/shared/outbox"
)

const (
	proposalSequenceRowID = 1

	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type proposalModel struct {
	ID               int64      `gorm:"column:id;primaryKey"`
	Creator          string     `gorm:"column:creator"`
	Title            string     `gorm:"column:title"`
	Description      string     `gorm:"column:description"`
	Options          []byte     `gorm:"column:options"`
	OptionVotes      []byte     `gorm:"column:option_votes"`
	TotalVotes       int64      `gorm:"column:total_votes"`
	TotalVotingPower int64      `gorm:"column:total_voting_power"`
	MinimumQuorum    int64      `gorm:"column:minimum_quorum"`
	Status           string     `gorm:"column:status"`
	WinningOption    int        `gorm:"column:winning_option"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	VotingEndAt      time.Time  `gorm:"column:voting_end_at"`
	FinalizedAt      *time.Time `gorm:"column:finalized_at"`
}

func (proposalModel) TableName() string {
	return "governance_proposals"
}

func proposalModelFromEntity(proposal entities.Proposal) (proposalModel, error) {
	options, err := json.Marshal(proposal.Options)
	if err != nil {
		return proposalModel{}, err
	}
	optionVotes, err := json.Marshal(proposal.OptionVotes)
	if err != nil {
		return proposalModel{}, err
	}
	return proposalModel{
		ID:               proposal.ID,
		Creator:          proposal.Creator,
		Title:            proposal.Title,
		Description:      proposal.Description,
		Options:          options,
		OptionVotes:      optionVotes,
		TotalVotes:       proposal.TotalVotes,
		TotalVotingPower: proposal.TotalVotingPower,
		MinimumQuorum:    proposal.MinimumQuorum,
		Status:           string(proposal.Status),
		WinningOption:    proposal.WinningOption,
		CreatedAt:        proposal.CreatedAt.UTC(),
		VotingEndAt:      proposal.VotingEndAt.UTC(),
		FinalizedAt:      proposal.FinalizedAt,
	}, nil
}

func (m proposalModel) toEntity() (entities.Proposal, error) {
	var options []string
	if len(m.Options) > 0 {
		if err := json.Unmarshal(m.Options, &options); err != nil {
			return entities.Proposal{}, err
		}
	}
	var optionVotes []int64
	if len(m.OptionVotes) > 0 {
		if err := json.Unmarshal(m.OptionVotes, &optionVotes); err != nil {
			return entities.Proposal{}, err
		}
	}
	return entities.Proposal{
		ID:               m.ID,
		Creator:          m.Creator,
		Title:            m.Title,
		Description:      m.Description,
		Options:          options,
		OptionVotes:      optionVotes,
		TotalVotes:       m.TotalVotes,
		TotalVotingPower: m.TotalVotingPower,
		MinimumQuorum:    m.MinimumQuorum,
		Status:           entities.ProposalStatus(m.Status),
		WinningOption:    m.WinningOption,
		CreatedAt:        m.CreatedAt,
		VotingEndAt:      m.VotingEndAt,
		FinalizedAt:      m.FinalizedAt,
	}, nil
}

type voteModel struct {
	ProposalID  int64     `gorm:"column:proposal_id;primaryKey"`
	Account     string    `gorm:"column:account;primaryKey"`
	OptionIndex int       `gorm:"column:option_index"`
	PowerSpent  int64     `gorm:"column:power_spent"`
	CastAt      time.Time `gorm:"column:cast_at"`
}

func (voteModel) TableName() string {
	return "governance_votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	return voteModel{
		ProposalID:  vote.ProposalID,
		Account:     vote.Account,
		OptionIndex: vote.OptionIndex,
		PowerSpent:  vote.PowerSpent,
		CastAt:      vote.CastAt.UTC(),
	}
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		ProposalID:  m.ProposalID,
		Account:     m.Account,
		OptionIndex: m.OptionIndex,
		PowerSpent:  m.PowerSpent,
		CastAt:      m.CastAt,
	}
}

type proposalSequenceModel struct {
	ID     int   `gorm:"column:id;primaryKey"`
	NextID int64 `gorm:"column:next_id"`
}

func (proposalSequenceModel) TableName() string {
	return "governance_proposal_sequence"
}

type outboxModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "governance_outbox"
}

func outboxModelFromEnvelope(envelope ports.EventEnvelope) (outboxModel, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return outboxModel{}, err
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return outboxModel{
		ID:           envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    createdAt,
	}, nil
}

func (m outboxModel) toMessage() outbox.Message {
	return outbox.Message{
		OutboxID:     m.ID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      m.Payload,
		CreatedAt:    m.CreatedAt,
	}
}
