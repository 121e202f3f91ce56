package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"decentralfund/contexts/fund-core/token-ledger/domain/entities"
	domainerrors "decentralfund/contexts/fund-core/token-ledger/domain/errors"
	"decentralfund/contexts/fund-core/token-ledger/ports"
	"decentralfund/internal/shared/outbox"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   outbox.Message
	published bool
}

type Store struct {
	mu sync.RWMutex

	accounts map[string]entities.Account
	paused   bool
	outbox   map[string]outboxRecord
}

func NewStore(seed []entities.Account) *Store {
	accounts := make(map[string]entities.Account, len(seed))
	for _, account := range seed {
		accounts[account.Address] = account
	}
	return &Store{
		accounts: accounts,
		outbox:   make(map[string]outboxRecord),
	}
}

func (s *Store) SaveAccount(_ context.Context, account entities.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[strings.TrimSpace(account.Address)] = account
	return nil
}

func (s *Store) SaveAccounts(_ context.Context, accounts ...entities.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range accounts {
		s.accounts[strings.TrimSpace(account.Address)] = account
	}
	return nil
}

func (s *Store) GetAccount(_ context.Context, address string) (entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[strings.TrimSpace(address)]
	if !ok {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	return account, nil
}

func (s *Store) ListAccounts(_ context.Context) ([]entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		items = append(items, account)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Address < items[j].Address
	})
	return items, nil
}

func (s *Store) TotalSupply(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var supply int64
	for _, account := range s.accounts {
		supply += account.Balance
	}
	return supply, nil
}

func (s *Store) IsPaused(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused, nil
}

func (s *Store) SetPaused(_ context.Context, paused bool, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
	return nil
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
