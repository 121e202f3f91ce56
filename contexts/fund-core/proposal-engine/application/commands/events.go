package commands

import (
	"context"
	"strconv"
	"time"

	"decentralfund/contexts/fund-core/proposal-engine/domain/entities"
	"decentralfund/internal/shared/events"
)

func (uc *ProposalUseCase) appendProposalEvent(
	ctx context.Context,
	eventType string,
	proposal entities.Proposal,
	occurredAt time.Time,
	payload map[string]any,
) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := events.New(
		eventID,
		eventType,
		"proposal",
		strconv.FormatInt(proposal.ID, 10),
		occurredAt,
		payload,
	)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}
