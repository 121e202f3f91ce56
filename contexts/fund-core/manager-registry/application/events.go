package application

import (
	"context"
	"time"

	"decentralfund/contexts/fund-core/manager-registry/domain/entities"
	"decentralfund/internal/shared/events"
)

func (s *Service) appendManagerEvent(
	ctx context.Context,
	eventType string,
	manager entities.FundManager,
	occurredAt time.Time,
	payload map[string]any,
) error {
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := events.New(eventID, eventType, "fund_manager", manager.Address, occurredAt, payload)
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, envelope)
}
