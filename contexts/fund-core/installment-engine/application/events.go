package application

import (
	"context"
	"time"

	"decentralfund/contexts/fund-core/installment-engine/domain/entities"
	"decentralfund/internal/shared/events"
)

func (s *Service) appendPlanEvent(
	ctx context.Context,
	eventType string,
	plan entities.InstallmentPlan,
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
	envelope, err := events.New(eventID, eventType, "installment_plan", plan.ID, occurredAt, payload)
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, envelope)
}

func (s *Service) appendStatusEvent(
	ctx context.Context,
	plan entities.InstallmentPlan,
	oldStatus entities.PlanStatus,
	occurredAt time.Time,
) error {
	return s.appendPlanEvent(ctx, "sip.plan_status_changed", plan, occurredAt, map[string]any{
		"plan_id":    plan.ID,
		"old_status": string(oldStatus),
		"new_status": string(plan.Status),
	})
}
