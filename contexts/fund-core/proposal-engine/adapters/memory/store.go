package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"decentralfund/contexts/fund-core/proposal-engine/domain/entities"
	domainerrors "decentralfund/contexts/fund-core/proposal-engine/domain/errors"
	"decentralfund/contexts/fund-core/proposal-engine/ports"
	"decentralfund/internal/shared/outbox"

	"github.com/google/uuid"
)

type voteKey struct {
	proposalID int64
	account    string
}

type outboxRecord struct {
	message   outbox.Message
	published bool
}

type Store struct {
	mu sync.RWMutex

	nextID    int64
	proposals map[int64]entities.Proposal
	votes     map[voteKey]entities.Vote
	outbox    map[string]outboxRecord
}

func NewStore() *Store {
	return &Store{
		proposals: make(map[int64]entities.Proposal),
		votes:     make(map[voteKey]entities.Vote),
		outbox:    make(map[string]outboxRecord),
	}
}

func (s *Store) NextProposalID(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID, nil
}

func (s *Store) SaveProposal(_ context.Context, proposal entities.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[proposal.ID] = cloneProposal(proposal)
	return nil
}

func (s *Store) GetProposal(_ context.Context, proposalID int64) (entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, ok := s.proposals[proposalID]
	if !ok {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}
	return cloneProposal(proposal), nil
}

func (s *Store) ListProposals(_ context.Context) ([]entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Proposal, 0, len(s.proposals))
	for _, proposal := range s.proposals {
		items = append(items, cloneProposal(proposal))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *Store) ListActiveDueBefore(_ context.Context, deadline time.Time, limit int) ([]entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	items := make([]entities.Proposal, 0)
	for _, proposal := range s.proposals {
		if proposal.Status != entities.ProposalStatusActive {
			continue
		}
		if !deadline.After(proposal.VotingEndAt) {
			continue
		}
		items = append(items, cloneProposal(proposal))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) SaveBallot(_ context.Context, vote entities.Vote, proposal entities.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := voteKey{proposalID: vote.ProposalID, account: strings.TrimSpace(vote.Account)}
	if _, exists := s.votes[key]; exists {
		return domainerrors.ErrAlreadyVoted
	}
	s.votes[key] = vote
	s.proposals[proposal.ID] = cloneProposal(proposal)
	return nil
}

func (s *Store) GetVote(_ context.Context, proposalID int64, account string) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vote, ok := s.votes[voteKey{proposalID: proposalID, account: strings.TrimSpace(account)}]
	return vote, ok, nil
}

func (s *Store) ListVotesByProposal(_ context.Context, proposalID int64) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if vote.ProposalID == proposalID {
			items = append(items, vote)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CastAt.Equal(items[j].CastAt) {
			return items[i].Account < items[j].Account
		}
		return items[i].CastAt.Before(items[j].CastAt)
	})
	return items, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.message.Payload, payload) {
			return domainerrors.ErrConflict
		}
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: outbox.Message{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]outbox.Message, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneProposal(proposal entities.Proposal) entities.Proposal {
	clone := proposal
	clone.Options = append([]string(nil), proposal.Options...)
	clone.OptionVotes = append([]int64(nil), proposal.OptionVotes...)
	if proposal.FinalizedAt != nil {
		finalizedAt := *proposal.FinalizedAt
		clone.FinalizedAt = &finalizedAt
	}
	return clone
}
