package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"decentralfund/contexts/fund-core/installment-engine/domain/entities"
	domainerrors "decentralfund/contexts/fund-core/installment-engine/domain/errors"
	"decentralfund/contexts/fund-core/installment-engine/ports"
	"decentralfund/internal/shared/outbox"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   outbox.Message
	published bool
}

type Store struct {
	mu sync.RWMutex

	plans    map[string]entities.InstallmentPlan
	payments map[string][]entities.InstallmentPayment
	outbox   map[string]outboxRecord
}

func NewStore() *Store {
	return &Store{
		plans:    make(map[string]entities.InstallmentPlan),
		payments: make(map[string][]entities.InstallmentPayment),
		outbox:   make(map[string]outboxRecord),
	}
}

func (s *Store) SavePlan(_ context.Context, plan entities.InstallmentPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[plan.ID] = clonePlan(plan)
	return nil
}

func (s *Store) GetPlan(_ context.Context, planID string) (entities.InstallmentPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, ok := s.plans[strings.TrimSpace(planID)]
	if !ok {
		return entities.InstallmentPlan{}, domainerrors.ErrPlanNotFound
	}
	return clonePlan(plan), nil
}

func (s *Store) ListPlans(_ context.Context) ([]entities.InstallmentPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.InstallmentPlan, 0, len(s.plans))
	for _, plan := range s.plans {
		items = append(items, clonePlan(plan))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *Store) ListPlansByInvestor(_ context.Context, investor string) ([]entities.InstallmentPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	investor = strings.TrimSpace(investor)
	items := make([]entities.InstallmentPlan, 0)
	for _, plan := range s.plans {
		if plan.Investor == investor {
			items = append(items, clonePlan(plan))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *Store) ListDuePlans(_ context.Context, now time.Time, limit int) ([]entities.InstallmentPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	items := make([]entities.InstallmentPlan, 0)
	for _, plan := range s.plans {
		if plan.Due(now) {
			items = append(items, clonePlan(plan))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].NextPaymentAt.Equal(items[j].NextPaymentAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].NextPaymentAt.Before(items[j].NextPaymentAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) SavePayment(_ context.Context, payment entities.InstallmentPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[payment.PlanID] = append(s.payments[payment.PlanID], payment)
	return nil
}

func (s *Store) ListPaymentsByPlan(_ context.Context, planID string) ([]entities.InstallmentPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := append([]entities.InstallmentPayment(nil), s.payments[strings.TrimSpace(planID)]...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].Sequence < items[j].Sequence
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

func clonePlan(plan entities.InstallmentPlan) entities.InstallmentPlan {
	clone := plan
	if plan.EndAt != nil {
		endAt := *plan.EndAt
		clone.EndAt = &endAt
	}
	return clone
}
