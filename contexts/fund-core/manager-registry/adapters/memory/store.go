package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"decentralfund/contexts/fund-core/manager-registry/domain/entities"
	domainerrors "decentralfund/contexts/fund-core/manager-registry/domain/errors"
	"decentralfund/contexts/fund-core/manager-registry/ports"
	"decentralfund/internal/shared/outbox"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   outbox.Message
	published bool
}

type Store struct {
	mu sync.RWMutex

	managers map[string]entities.FundManager
	outbox   map[string]outboxRecord
}

func NewStore() *Store {
	return &Store{
		managers: make(map[string]entities.FundManager),
		outbox:   make(map[string]outboxRecord),
	}
}

func (s *Store) SaveManager(_ context.Context, manager entities.FundManager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.managers[strings.TrimSpace(manager.Address)] = manager
	return nil
}

func (s *Store) GetManager(_ context.Context, address string) (entities.FundManager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	manager, ok := s.managers[strings.TrimSpace(address)]
	if !ok {
		return entities.FundManager{}, domainerrors.ErrManagerNotFound
	}
	return manager, nil
}

func (s *Store) ListManagers(_ context.Context) ([]entities.FundManager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.FundManager, 0, len(s.managers))
	for _, manager := range s.managers {
		items = append(items, manager)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Address < items[j].Address
	})
	return items, nil
}

func (s *Store) ListActiveManagers(_ context.Context) ([]entities.FundManager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.FundManager, 0)
	for _, manager := range s.managers {
		if manager.IsActive {
			items = append(items, manager)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Address < items[j].Address
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
